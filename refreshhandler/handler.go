// refreshhandler/handler.go
/* The `refreshhandler` package implements the credential refresh state machine: given
any number of requests that hit an authorization failure concurrently, exactly one of
them drives a single refresh call against the refresh endpoint while the rest wait in
FIFO order for its outcome. On success every waiter receives the same new credential
pair; on failure every waiter receives the same error, the stored credentials are
removed, and the configured failure callback fires once.

The handler is instance-scoped: one handler per augmented client, guarding its own
refreshing flag and waiter queue with a mutex. It must never be shared across clients. */
package refreshhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-api-bearer-auth/credentialstore"
	"github.com/deploymenttheory/go-api-bearer-auth/logger"
	"github.com/deploymenttheory/go-api-bearer-auth/response"
)

// HTTPDoer is the slice of *http.Client the handler needs to reach the refresh
// endpoint. The client passed in must not route back through the refresh-triggering
// response interceptor.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the collaborators and knobs for a RefreshHandler.
type Config struct {
	Store            credentialstore.Store // required
	RefreshEndpoint  string                // required, absolute URL of the refresh endpoint
	Client           HTTPDoer              // required, used for the refresh call itself
	PayloadAdapter   PayloadAdapter        // optional, defaults to DefaultPayloadAdapter
	ResponseAdapter  ResponseAdapter       // optional, defaults to DefaultResponseAdapter
	OnRefreshFailure func(err error)       // optional, invoked once per failed cycle
	Logger           logger.Logger         // optional, defaults to a nop logger
}

// refreshResult is the outcome of one refresh cycle, broadcast to every waiter.
type refreshResult struct {
	creds Credentials
	err   error
}

// RefreshHandler coordinates single-flight credential refresh for one augmented client.
//
// State machine: Idle (refreshing == false) and Refreshing (refreshing == true).
// The first caller to Refresh while Idle becomes the driver of the cycle; callers
// arriving while Refreshing enqueue a buffered waiter channel and block until the
// driver settles the cycle. Settling drains the queue in insertion order and resets
// the state to Idle, so the queue is empty after every cycle regardless of outcome.
type RefreshHandler struct {
	store           credentialstore.Store
	endpoint        string
	client          HTTPDoer
	payloadAdapter  PayloadAdapter
	responseAdapter ResponseAdapter
	onFailure       func(error)
	log             logger.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// NewRefreshHandler creates a RefreshHandler from the given config, applying defaults
// for the optional fields. Required fields are validated by the client configuration
// layer before this is called.
func NewRefreshHandler(cfg Config) *RefreshHandler {
	if cfg.PayloadAdapter == nil {
		cfg.PayloadAdapter = DefaultPayloadAdapter
	}
	if cfg.ResponseAdapter == nil {
		cfg.ResponseAdapter = DefaultResponseAdapter
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.BuildNopLogger()
	}

	return &RefreshHandler{
		store:           cfg.Store,
		endpoint:        cfg.RefreshEndpoint,
		client:          cfg.Client,
		payloadAdapter:  cfg.PayloadAdapter,
		responseAdapter: cfg.ResponseAdapter,
		onFailure:       cfg.OnRefreshFailure,
		log:             cfg.Logger,
	}
}

// Refresh obtains a fresh credential pair, coordinating with any refresh already in
// flight. If one is running, the call joins its queue and returns that cycle's outcome;
// otherwise the call drives a new cycle. Regardless of how many callers pile in, the
// refresh endpoint is hit once per cycle.
//
// The context only governs how long this caller is willing to wait; abandoning the
// wait does not cancel the cycle for the other participants.
func (h *RefreshHandler) Refresh(ctx context.Context) (creds Credentials, err error) {
	h.mu.Lock()
	if h.refreshing {
		waiter := make(chan refreshResult, 1)
		h.waiters = append(h.waiters, waiter)
		h.mu.Unlock()

		h.log.Debug("joining in-flight refresh cycle")
		select {
		case res := <-waiter:
			return res.creds, res.err
		case <-ctx.Done():
			return Credentials{}, ctx.Err()
		}
	}

	h.refreshing = true
	h.mu.Unlock()

	log := h.log.With(zap.String("refresh_cycle_id", uuid.NewString()))
	log.Debug("starting refresh cycle")

	// Settling is the guaranteed final step of a cycle: drain every waiter in FIFO
	// order with this cycle's outcome and return to Idle.
	defer func() {
		h.settle(refreshResult{creds: creds, err: err}, log)
	}()

	creds, err = h.executeRefresh(ctx, log)
	return creds, err
}

// settle broadcasts the cycle outcome to every queued waiter in insertion order,
// empties the queue, and resets the state to Idle.
func (h *RefreshHandler) settle(res refreshResult, log logger.Logger) {
	h.mu.Lock()
	waiters := h.waiters
	h.waiters = nil
	h.refreshing = false
	h.mu.Unlock()

	for _, waiter := range waiters {
		// Buffered, so a waiter that abandoned on context cancellation never
		// blocks the drain.
		waiter <- res
		close(waiter)
	}

	log.Debug("refresh cycle settled",
		zap.Int("released_waiters", len(waiters)),
		zap.Bool("success", res.err == nil),
	)
}

// executeRefresh runs the refresh protocol and, on failure, the cleanup path: remove
// both stored credentials, then invoke the failure callback before returning.
func (h *RefreshHandler) executeRefresh(ctx context.Context, log logger.Logger) (Credentials, error) {
	creds, err := h.refreshCredentials(ctx, log)
	if err == nil {
		log.Info("credential refresh succeeded")
		return creds, nil
	}

	log.Warn("credential refresh failed", zap.Error(err))

	// Cleanup must run even when the refresh failed because ctx was cancelled.
	cleanupCtx := context.WithoutCancel(ctx)
	if removeErr := h.store.RemoveCredentials(cleanupCtx); removeErr != nil {
		log.Warn("failed to remove credentials after refresh failure", zap.Error(removeErr))
	}

	// Credentials are already cleared at this point, so the callback can assume no
	// valid credential remains. Invoked synchronously: the failure is not surfaced
	// to any caller until the callback returns.
	if h.onFailure != nil {
		h.onFailure(err)
	}

	return Credentials{}, err
}

// refreshCredentials performs one pass of the refresh protocol: read the refresh
// credential, call the refresh endpoint, map the response, persist the new pair.
func (h *RefreshHandler) refreshCredentials(ctx context.Context, log logger.Logger) (Credentials, error) {
	refreshCred, err := h.store.GetRefreshCredential(ctx)
	if err != nil {
		return Credentials{}, &StoreError{Op: "get refresh credential", Err: err}
	}
	if refreshCred == "" {
		return Credentials{}, ErrMissingRefreshCredential
	}

	payload, err := json.Marshal(h.payloadAdapter(refreshCred))
	if err != nil {
		return Credentials{}, fmt.Errorf("refreshhandler: marshal refresh payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Credentials{}, fmt.Errorf("refreshhandler: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug("calling refresh endpoint", zap.String("endpoint", h.endpoint))
	resp, err := h.client.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("refreshhandler: refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credentials{}, response.NewRefreshEndpointError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credentials{}, fmt.Errorf("refreshhandler: read refresh response: %w", err)
	}

	creds, err := h.responseAdapter(body)
	if err != nil {
		return Credentials{}, fmt.Errorf("refreshhandler: map refresh response: %w", err)
	}

	if err := h.store.SetCredential(ctx, creds.Credential); err != nil {
		return Credentials{}, &StoreError{Op: "set credential", Err: err}
	}
	if creds.RefreshCredential != "" {
		if err := h.store.SetRefreshCredential(ctx, creds.RefreshCredential); err != nil {
			return Credentials{}, &StoreError{Op: "set refresh credential", Err: err}
		}
	}

	return creds, nil
}
