package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"suicket/internal/logger"
)

const defaultPageLimit = 50

// Client talks JSON-RPC 2.0 to a Sui fullnode. Network I/O only, no local
// state. Every call carries the configured timeout and surfaces transport
// failures as ErrLedgerUnavailable so the UI never hangs on the ledger.
type Client struct {
	rpcURL string
	http   *http.Client
	logger *logger.Logger
}

func NewClient(rpcURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		rpcURL: rpcURL,
		http:   &http.Client{Timeout: timeout},
		logger: log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

const rpcInvalidParams = -32602

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLedgerUnavailable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned HTTP %d", ErrLedgerUnavailable, method, resp.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrLedgerUnavailable, method, err)
	}

	if envelope.Error != nil {
		if envelope.Error.Code == rpcInvalidParams {
			return &MalformedError{Detail: fmt.Sprintf("%s: %s", method, envelope.Error.Message)}
		}
		return fmt.Errorf("%w: %s: rpc error %d: %s", ErrLedgerUnavailable, method, envelope.Error.Code, envelope.Error.Message)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("%w: %s: decoding result: %v", ErrLedgerUnavailable, method, err)
		}
	}
	return nil
}

// objectOptions asks the fullnode to include the content and type of each
// object, matching what the typed parse boundary needs.
func objectOptions() map[string]bool {
	return map[string]bool{"showContent": true, "showType": true}
}

type getObjectResult struct {
	Data  *rawObject `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (c *Client) GetObject(ctx context.Context, id string) (*ObjectSnapshot, error) {
	if !IsWellFormedObjectID(id) {
		return nil, &MalformedError{ObjectID: id, Detail: "not a valid object id"}
	}

	var result getObjectResult
	if err := c.call(ctx, "sui_getObject", []any{id, objectOptions()}, &result); err != nil {
		return nil, err
	}

	if result.Error != nil {
		switch result.Error.Code {
		case "notExists", "deleted":
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		default:
			return nil, &MalformedError{ObjectID: id, Detail: "object error " + result.Error.Code}
		}
	}
	if result.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	snap, err := parseSnapshot(*result.Data, time.Now())
	if err != nil {
		return nil, err
	}
	c.logger.LogLedger("sui_getObject", id, "object fetched")
	return snap, nil
}

type objectPageResult struct {
	Data []struct {
		Data *rawObject `json:"data"`
	} `json:"data"`
	NextCursor  string `json:"nextCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

func (c *Client) pageFromResult(result objectPageResult) Page {
	page := Page{NextCursor: result.NextCursor, HasNext: result.HasNextPage}
	now := time.Now()
	for _, item := range result.Data {
		if item.Data == nil {
			continue
		}
		snap, err := parseSnapshot(*item.Data, now)
		if err != nil {
			// One malformed object must not poison the whole listing.
			c.logger.Warn("LEDGER", fmt.Sprintf("skipping malformed object in listing: %v", err))
			continue
		}
		page.Snapshots = append(page.Snapshots, *snap)
	}
	return page
}

func (c *Client) ListOwnedObjects(owner, structType string) *Pager {
	return NewPager(func(ctx context.Context, cursor string) (Page, error) {
		query := map[string]any{
			"filter":  map[string]any{"StructType": structType},
			"options": objectOptions(),
		}
		params := []any{owner, query, nil, defaultPageLimit}
		if cursor != "" {
			params[2] = cursor
		}

		var result objectPageResult
		if err := c.call(ctx, "suix_getOwnedObjects", params, &result); err != nil {
			return Page{}, err
		}
		return c.pageFromResult(result), nil
	})
}

func (c *Client) ListObjectsByType(structType string) *Pager {
	return NewPager(func(ctx context.Context, cursor string) (Page, error) {
		query := map[string]any{
			"filter":  map[string]any{"StructType": structType},
			"options": objectOptions(),
		}
		params := []any{query, nil, defaultPageLimit}
		if cursor != "" {
			params[1] = cursor
		}

		var result objectPageResult
		if err := c.call(ctx, "suix_queryObjects", params, &result); err != nil {
			return Page{}, err
		}
		return c.pageFromResult(result), nil
	})
}

type executeResult struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects"`
}

// Submit sends a pre-built transaction and waits for local execution, the
// finality point after which the effect is permanent. The intent payload is
// passed through unmodified.
func (c *Client) Submit(ctx context.Context, intent TransactionIntent) (TransactionOutcome, error) {
	params := []any{
		intent.TxBytes,
		intent.Signatures,
		map[string]bool{"showEffects": true},
		"WaitForLocalExecution",
	}

	var result executeResult
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &result); err != nil {
		return TransactionOutcome{}, err
	}

	if result.Effects == nil {
		return TransactionOutcome{}, fmt.Errorf("%w: transaction response missing effects", ErrLedgerUnavailable)
	}

	if result.Effects.Status.Status != "success" {
		reason := result.Effects.Status.Error
		if reason == "" {
			reason = "transaction failed"
		}
		c.logger.Error("LEDGER", fmt.Sprintf("transaction %s rejected: %s", result.Digest, reason))
		return TransactionOutcome{Digest: result.Digest, Success: false}, &RejectedError{Reason: reason}
	}

	c.logger.LogLedger("sui_executeTransactionBlock", result.Digest, "transaction finalized")
	return TransactionOutcome{Digest: result.Digest, Success: true}, nil
}
