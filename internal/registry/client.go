package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"sync/atomic"

	"likeness/internal/logging"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// RPCEnumerator enumerates an ERC-721 enumerable contract through the
// eth_call JSON-RPC method.
type RPCEnumerator struct {
	url      string
	contract string
	client   HTTPDoer
	logger   *slog.Logger
	nextID   atomic.Int64
}

// NewRPCEnumerator constructs an enumerator for the contract at the given
// JSON-RPC endpoint.
func NewRPCEnumerator(url, contract string, client HTTPDoer, logger *slog.Logger) *RPCEnumerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &RPCEnumerator{
		url:      url,
		contract: contract,
		client:   client,
		logger:   logging.NewComponentLogger(logger, "registry"),
	}
}

// Enumerate walks the collection by index: totalSupply once, then
// tokenByIndex and tokenURI per item. A tokenURI the registry cannot produce
// yields an item with an empty URI, so downstream resolution skips just that
// item instead of aborting the run.
func (e *RPCEnumerator) Enumerate(ctx context.Context, fn func(Item) error) error {
	total, err := e.totalSupply(ctx)
	if err != nil {
		return fmt.Errorf("registry: total supply: %w", err)
	}
	e.logger.Debug("enumerating collection", logging.Args(logging.String("total_supply", total.String()))...)

	one := big.NewInt(1)
	for index := new(big.Int); index.Cmp(total) < 0; index.Add(index, one) {
		if err := ctx.Err(); err != nil {
			return err
		}

		tokenID, err := e.tokenByIndex(ctx, index)
		if err != nil {
			return fmt.Errorf("registry: token at index %s: %w", index, err)
		}

		uri, err := e.tokenURI(ctx, tokenID)
		if err != nil {
			e.logger.Warn("token URI unavailable",
				logging.Args(
					logging.String(logging.FieldItemID, tokenID.String()),
					logging.Error(err),
				)...)
			uri = ""
		}

		if err := fn(Item{ID: tokenID.String(), TokenURI: uri}); err != nil {
			return err
		}
	}
	return nil
}

func (e *RPCEnumerator) totalSupply(ctx context.Context) (*big.Int, error) {
	result, err := e.ethCall(ctx, selectorTotalSupply)
	if err != nil {
		return nil, err
	}
	return decodeUint256(result)
}

func (e *RPCEnumerator) tokenByIndex(ctx context.Context, index *big.Int) (*big.Int, error) {
	data, err := encodeUint256(selectorTokenByIndex, index)
	if err != nil {
		return nil, err
	}
	result, err := e.ethCall(ctx, data)
	if err != nil {
		return nil, err
	}
	return decodeUint256(result)
}

func (e *RPCEnumerator) tokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	data, err := encodeUint256(selectorTokenURI, tokenID)
	if err != nil {
		return "", err
	}
	result, err := e.ethCall(ctx, data)
	if err != nil {
		return "", err
	}
	return decodeString(result)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcCallParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *RPCEnumerator) ethCall(ctx context.Context, data string) (string, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      e.nextID.Add(1),
		Method:  "eth_call",
		Params:  []any{rpcCallParams{To: e.contract, Data: data}, "latest"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", decoded.Error
	}
	if decoded.Result == "" {
		return "", fmt.Errorf("empty result")
	}
	return decoded.Result, nil
}
