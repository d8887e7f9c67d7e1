package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// ReceiptFunc fetches a receipt by hash. Used to inject deterministic receipts in tests.
type ReceiptFunc func(ctx context.Context, hash common.Hash) (*types.Receipt, error)

// EVMClient provides EVM blockchain interaction
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	// testReceipt allows deterministic unit tests without network sockets.
	testReceipt ReceiptFunc
}

// NewEVMClient creates a new EVM client
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewEVMClientWithReceipts creates an EVM client backed by an injected receipt source.
func NewEVMClientWithReceipts(chainID *big.Int, fn ReceiptFunc) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID:     chainID,
		testReceipt: fn,
	}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// RPCURL returns the endpoint the client was dialed with
func (c *EVMClient) RPCURL() string {
	return c.rpcURL
}

// GetTransactionReceipt gets the receipt of a mined transaction.
// It returns (nil, nil) while the node does not know the receipt yet.
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash, err := parseTxHash(txHash)
	if err != nil {
		return nil, err
	}

	var receipt *types.Receipt
	if c.testReceipt != nil {
		receipt, err = c.testReceipt(ctx, hash)
	} else {
		receipt, err = c.client.TransactionReceipt(ctx, hash)
	}
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func parseTxHash(txHash string) (common.Hash, error) {
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q", txHash)
	}
	return common.BytesToHash(raw), nil
}
