package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"artmarket.backoffice/internal/config"
	"artmarket.backoffice/pkg/metrics"
)

var beforeGetEVMClientWriteLockHook = func(string) {}

// ClientFactory manages blockchain clients, one per RPC URL
type ClientFactory struct {
	evmClients map[string]*EVMClient
	defaultRPC string
	chainRPCs  map[string]string
	mu         sync.RWMutex
}

// NewClientFactory creates a new client factory
func NewClientFactory(cfg config.BlockchainConfig) *ClientFactory {
	chainRPCs := make(map[string]string, len(cfg.ChainRPCs))
	for chainID, url := range cfg.ChainRPCs {
		chainRPCs[chainID] = url
	}
	return &ClientFactory{
		evmClients: make(map[string]*EVMClient),
		defaultRPC: cfg.DefaultRPC,
		chainRPCs:  chainRPCs,
	}
}

// RPCURL resolves the RPC endpoint of a CAIP-2 chain id, falling back to the default RPC
func (f *ClientFactory) RPCURL(chainID string) (string, error) {
	if url, ok := f.chainRPCs[chainID]; ok {
		return url, nil
	}
	if f.defaultRPC == "" {
		return "", fmt.Errorf("no RPC configured for chain %s", chainID)
	}
	return f.defaultRPC, nil
}

// GetEVMClient returns an EVM client for the given RPC URL
// If a client already exists for the URL, it returns the cached client
func (f *ClientFactory) GetEVMClient(rpcURL string) (*EVMClient, error) {
	f.mu.RLock()
	client, ok := f.evmClients[rpcURL]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	beforeGetEVMClientWriteLockHook(rpcURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if client, ok := f.evmClients[rpcURL]; ok {
		return client, nil
	}

	newClient, err := NewEVMClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create EVM client: %w", err)
	}

	f.evmClients[rpcURL] = newClient
	return newClient, nil
}

// RegisterEVMClient injects/overrides cached client for a specific rpcURL.
func (f *ClientFactory) RegisterEVMClient(rpcURL string, client *EVMClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evmClients[rpcURL] = client
}

// FetchReceipt looks up a transaction receipt on the given chain.
// A nil receipt with a nil error means the transaction is not mined yet.
func (f *ClientFactory) FetchReceipt(ctx context.Context, chainID, txHash string) (*types.Receipt, error) {
	rpcURL, err := f.RPCURL(chainID)
	if err != nil {
		return nil, err
	}
	client, err := f.GetEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	receipt, err := client.GetTransactionReceipt(ctx, txHash)
	metrics.ObserveReceiptFetch(chainID, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt on %s: %w", chainID, err)
	}
	return receipt, nil
}

// Close releases every cached client
func (f *ClientFactory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for url, client := range f.evmClients {
		client.Close()
		delete(f.evmClients, url)
	}
}
