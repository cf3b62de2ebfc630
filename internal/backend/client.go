// Package backend is a typed REST client for the appointment platform API.
// All responses use the {success, data, error} envelope convention.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clinicbook/booking-portal/internal/auth"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Client calls the platform backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     auth.TokenSource
	logger     *logging.Logger
}

// NewClient constructs a backend REST client.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// SetTokenSource attaches bearer-token auth to outgoing requests.
func (c *Client) SetTokenSource(ts auth.TokenSource) {
	c.tokens = ts
}

// SetTimeout overrides the default per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// GetClinic returns one clinic's detail.
func (c *Client) GetClinic(ctx context.Context, clinicID string) (*Clinic, error) {
	path := fmt.Sprintf("/clinics/%s", url.PathEscape(clinicID))
	clinic, err := call[Clinic](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &clinic, nil
}

// ListDoctors returns the doctors working at a clinic.
func (c *Client) ListDoctors(ctx context.Context, clinicID string) ([]Doctor, error) {
	q := url.Values{}
	q.Set("clinicId", clinicID)
	doctors, err := call[[]Doctor](ctx, c, http.MethodGet, "/doctors?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// GetAvailableSlots returns per-doctor slot groups for one clinic-local date
// (YYYY-MM-DD). The caller is responsible for picking out its doctor's entry.
func (c *Client) GetAvailableSlots(ctx context.Context, clinicID, doctorID, date string) ([]DoctorSlots, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("doctorId", doctorID)
	path := fmt.Sprintf("/clinics/%s/available-slots?%s", url.PathEscape(clinicID), q.Encode())

	resp, err := call[AvailableSlotsResponse](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}
	return resp.AvailableSlots, nil
}

// CreateAppointment submits a booking. Conflict resolution and double-booking
// prevention are the backend's responsibility; a rejection comes back as an
// *APIError carrying the server's message.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	appt, err := call[Appointment](ctx, c, http.MethodPost, "/appointments", req)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &appt, nil
}

// call issues one request and unwraps the response envelope.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return zero, fmt.Errorf("backend auth: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var env envelope[T]
	if decodeErr := json.Unmarshal(respBody, &env); decodeErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg := string(respBody)
			if len(msg) > 300 {
				msg = msg[:300]
			}
			c.logger.Warn("backend non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
			return zero, fmt.Errorf("backend returned %d: %s", resp.StatusCode, msg)
		}
		return zero, fmt.Errorf("decode response: %w", decodeErr)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return zero, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return env.Data, nil
}

// ErrorMessage extracts the server-supplied message from an error chain, or
// returns "" when the failure was not a backend rejection.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
