// Package backend implements the REST client for the excluded backend
// collaborator. It is the single place where wire shapes and HTTP status
// codes are translated into domain types and the platform error taxonomy.
package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"worktrack/services/messaging/config"
	"worktrack/services/messaging/infrastructure/metrics"
	"worktrack/services/messaging/utils/platformerrors"
)

// Client talks to the backend REST API. Safe for concurrent use.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient constructs the backend client. Every request carries the
// bearer token and a fresh X-Request-ID, and passes through the shared
// rate limiter before it leaves.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	c := &Client{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst),
		log:     log.With().Str("component", "backend-client").Logger(),
	}

	c.http = resty.New().
		SetBaseURL(cfg.BackendBaseURL).
		SetTimeout(cfg.FetchTimeout).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if err := c.limiter.Wait(r.Context()); err != nil {
				return err
			}
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})

	return c
}

// errorBody is the backend's rejection payload shape.
type errorBody struct {
	Message string `json:"message"`
}

// wrap converts a resty outcome into the platform error taxonomy. A nil
// return means the response is a success and can be decoded.
func (c *Client) wrap(operation string, resp *resty.Response, err error) error {
	if err != nil {
		metrics.RecordBackendRequest(operation, "transport_error")
		return platformerrors.Transport(operation+" failed", err)
	}
	if !resp.IsError() {
		metrics.RecordBackendRequest(operation, "ok")
		return nil
	}

	metrics.RecordBackendRequest(operation, fmt.Sprintf("http_%d", resp.StatusCode()))

	message := resp.Status()
	var body errorBody
	if decodeErr := json.Unmarshal(resp.Body(), &body); decodeErr == nil && body.Message != "" {
		message = body.Message
	}

	var errType platformerrors.ErrorType
	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errType = platformerrors.ErrorTypeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = platformerrors.ErrorTypePermission
	case http.StatusNotFound:
		errType = platformerrors.ErrorTypeNotFound
	case http.StatusConflict:
		errType = platformerrors.ErrorTypeConflict
	default:
		errType = platformerrors.ErrorTypeTransport
	}

	c.log.Debug().
		Str("operation", operation).
		Int("status", resp.StatusCode()).
		Str("message", message).
		Msg("backend rejected request")

	return platformerrors.New(platformerrors.LayerInfrastructure, errType, message, nil).
		WithContext("operation", operation).
		WithContext("status_code", resp.StatusCode())
}
