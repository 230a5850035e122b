// Package api is the HTTP client for the external assessment service.
// Payloads are posted one by one; failures are reported per email and
// never retried — the caller decides what to do with a failed delivery.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"assessment-client/internal/core"
	"assessment-client/internal/logging"
)

// Status classifies the outcome of one payload delivery.
type Status string

const (
	// StatusSent: the API accepted the payload with a 2xx response.
	StatusSent Status = "sent"

	// StatusAPIError: the API answered with a non-2xx status.
	StatusAPIError Status = "api_error"

	// StatusTransportError: the request never completed (connection
	// failure or timeout).
	StatusTransportError Status = "transport_error"
)

// DeliveryResult is the reportable outcome of sending one payload.
type DeliveryResult struct {
	Email      string `json:"email"`
	Status     Status `json:"status"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// maxDetailBytes caps how much of an API error body is carried into a
// delivery result.
const maxDetailBytes = 2048

// Client posts assessment payloads to a fixed API endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a client for the given endpoint. The timeout bounds
// each request; expiry surfaces as a transport error on the delivery
// result.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		url:  apiURL,
		http: &http.Client{Timeout: timeout},
	}
}

// Send posts a single payload and returns its delivery result. The
// result is always usable; transport and API failures are carried in
// it rather than returned as errors.
func (c *Client) Send(ctx context.Context, p core.Payload) DeliveryResult {
	result := DeliveryResult{Email: p.UserEmail}

	body, err := json.Marshal(p)
	if err != nil {
		result.Status = StatusTransportError
		result.Detail = fmt.Sprintf("encode payload: %v", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		result.Status = StatusTransportError
		result.Detail = fmt.Sprintf("build request: %v", err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		result.Status = StatusTransportError
		result.Detail = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.HTTPStatus = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Status = StatusSent
		return result
	}

	result.Status = StatusAPIError
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
	result.Detail = string(detail)
	return result
}

// SendAll posts payloads sequentially, in order, and returns one result
// per payload. A failed delivery does not stop the run; a cancelled
// context does.
func (c *Client) SendAll(ctx context.Context, payloads []core.Payload) []DeliveryResult {
	logger := logging.FromContext(ctx)

	results := make([]DeliveryResult, 0, len(payloads))
	for _, p := range payloads {
		if ctx.Err() != nil {
			results = append(results, DeliveryResult{
				Email:  p.UserEmail,
				Status: StatusTransportError,
				Detail: ctx.Err().Error(),
			})
			continue
		}

		result := c.Send(ctx, p)
		switch result.Status {
		case StatusSent:
			logger.Info("payload sent", "email", result.Email, "status", result.HTTPStatus)
		default:
			logger.Warn("payload delivery failed",
				"email", result.Email,
				"outcome", string(result.Status),
				"status", result.HTTPStatus,
				"detail", result.Detail,
			)
		}
		results = append(results, result)
	}
	return results
}
