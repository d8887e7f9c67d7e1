package blockchain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"artmarket.backoffice/internal/config"
)

const (
	minedTxHash   = "0x1111111111111111111111111111111111111111111111111111111111111111"
	pendingTxHash = "0x9999999999999999999999999999999999999999999999999999999999999999"
)

type rpcReq struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      interface{}     `json:"id"`
}

type rpcResp struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result"`
	Error   interface{} `json:"error,omitempty"`
}

func minedReceipt() map[string]interface{} {
	return map[string]interface{}{
		"transactionHash":   minedTxHash,
		"transactionIndex":  "0x0",
		"blockHash":         "0x2222222222222222222222222222222222222222222222222222222222222222",
		"blockNumber":       "0x1",
		"from":              "0x3333333333333333333333333333333333333333",
		"to":                "0x4444444444444444444444444444444444444444",
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"contractAddress":   nil,
		"logs": []interface{}{
			map[string]interface{}{
				"address":          "0x4444444444444444444444444444444444444444",
				"topics":           []string{"0x5555555555555555555555555555555555555555555555555555555555555555"},
				"data":             "0x",
				"blockNumber":      "0x1",
				"transactionHash":  minedTxHash,
				"transactionIndex": "0x0",
				"blockHash":        "0x2222222222222222222222222222222222222222222222222222222222222222",
				"logIndex":         "0x0",
				"removed":          false,
			},
		},
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"status":            "0x1",
		"effectiveGasPrice": "0x3b9aca00",
		"type":              "0x0",
	}
}

func newEVMRPCServer(t *testing.T) *httptest.Server {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("skip: httptest server unavailable in this environment: %v", r)
		}
	}()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req rpcReq
		_ = json.NewDecoder(r.Body).Decode(&req)

		res := rpcResp{JSONRPC: "2.0", ID: req.ID}
		switch req.Method {
		case "eth_chainId":
			res.Result = "0xaa36a7"
		case "eth_getTransactionReceipt":
			if strings.Contains(string(req.Params), minedTxHash) {
				res.Result = minedReceipt()
			}
		default:
			res.Error = map[string]interface{}{"code": -32601, "message": "method not found"}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(res)
	}))
}

func TestEVMClient_Methods_WithMockRPC(t *testing.T) {
	srv := newEVMRPCServer(t)
	defer srv.Close()

	client, err := NewEVMClient(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, big.NewInt(11155111), client.ChainID())
	require.Equal(t, srv.URL, client.RPCURL())

	receipt, err := client.GetTransactionReceipt(context.Background(), minedTxHash)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.Equal(t, uint64(1), receipt.Status)
	require.Len(t, receipt.Logs, 1)
}

func TestEVMClient_GetTransactionReceipt_NotMinedYet(t *testing.T) {
	srv := newEVMRPCServer(t)
	defer srv.Close()

	client, err := NewEVMClient(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	receipt, err := client.GetTransactionReceipt(context.Background(), pendingTxHash)
	require.NoError(t, err)
	require.Nil(t, receipt)
}

func TestEVMClient_GetTransactionReceipt_InvalidHash(t *testing.T) {
	client := NewEVMClientWithReceipts(nil, nil)
	for _, hash := range []string{"", "0x", "0x1234", "1111111111111111111111111111111111111111111111111111111111111111", "0xzz11111111111111111111111111111111111111111111111111111111111111"} {
		_, err := client.GetTransactionReceipt(context.Background(), hash)
		require.ErrorContains(t, err, "invalid transaction hash", hash)
	}
}

func TestEVMClient_GetTransactionReceipt_CanceledContext(t *testing.T) {
	srv := newEVMRPCServer(t)
	defer srv.Close()

	client, err := NewEVMClient(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.GetTransactionReceipt(ctx, minedTxHash)
	require.Error(t, err)
}

func TestClientFactory_GetEVMClient_CachePath(t *testing.T) {
	srv := newEVMRPCServer(t)
	defer srv.Close()

	f := NewClientFactory(config.BlockchainConfig{})
	c1, err := f.GetEVMClient(srv.URL)
	require.NoError(t, err)
	c2, err := f.GetEVMClient(srv.URL)
	require.NoError(t, err)
	require.Same(t, c1, c2)
	f.Close()
}
