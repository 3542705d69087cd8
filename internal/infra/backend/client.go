// Package backend implements the ordering API contract over HTTP/JSON.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"dinein/config"
	deliverycontext "dinein/internal/delivery/context"
	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/domain/service"
	"dinein/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	maxResponseBytes = 1 << 20
	statusSuccess    = "success"
)

// envelope is the backend's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Params holds dependencies for the backend client, injected by Fx
type Params struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	Credentials service.CredentialSource
	Inspector   service.TokenInspector
	Clock       service.Clock
	HTTPClient  *http.Client `optional:"true"`
}

// client is the single request layer. It reads the credential per call and
// routes every 401 to the credential source, so expiry policy lives in one place.
type client struct {
	baseURL     string
	httpClient  *http.Client
	credentials service.CredentialSource
	inspector   service.TokenInspector
	clock       service.Clock
	logger      *slog.Logger
}

func newClient(params Params) *client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.Backend.Timeout}
	}

	return &client{
		baseURL:     strings.TrimRight(params.Config.Backend.BaseURL, "/"),
		httpClient:  httpClient,
		credentials: params.Credentials,
		inspector:   params.Inspector,
		clock:       params.Clock,
		logger:      params.Logger,
	}
}

func (c *client) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}

// do sends one request and decodes envelope data into out (when non-nil).
func (c *client) do(ctx context.Context, op domainerrors.Operation, method, path string, body, out any) error {
	cred := c.credentials.Current()

	if cred.Present() && c.inspector != nil {
		claims, err := c.inspector.Inspect(cred.Token)
		if err == nil && claims.Expired(c.clock.Now()) {
			c.log(ctx).Info("Credential expired locally, not sending", slog.String("path", path))
			c.credentials.ReportUnauthorized(ctx, cred.Generation)

			return errors.WithStack(domainerrors.ErrAuthExpired)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred.Present() {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	requestID := deliverycontext.GetRequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.Header.Set(deliverycontext.HeaderXRequestID, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log(ctx).Error("Backend unreachable",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)

		return errors.WithStack(domainerrors.ErrNetwork.WithDetails(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.WithStack(domainerrors.ErrNetwork.WithDetails(err.Error()))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && cred.Present() {
			c.credentials.ReportUnauthorized(ctx, cred.Generation)
		}

		c.log(ctx).Warn("Backend rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", env.Message),
		)

		return errors.WithStack(domainerrors.FromStatus(resp.StatusCode, op, env.Message))
	}

	if decodeErr != nil {
		return errors.WithStack(domainerrors.ErrServer.WithDetails("malformed response: " + decodeErr.Error()))
	}

	if env.Status != statusSuccess {
		return errors.WithStack(domainerrors.FromStatus(http.StatusBadRequest, op, env.Message))
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.WithStack(domainerrors.ErrServer.WithDetails("malformed response data: " + err.Error()))
	}

	return nil
}
