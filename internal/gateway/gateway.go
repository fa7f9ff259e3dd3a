package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/domain/dto"
)

// ErrorKind classifies a failed create call for the wizard.
type ErrorKind string

const (
	KindMissingFields ErrorKind = "missing_fields"
	KindInvalidEmail  ErrorKind = "invalid_email"
	KindDuplicate     ErrorKind = "duplicate"
	KindTransport     ErrorKind = "transport"
)

// Error is the gateway's result for any non-2xx outcome. Transport covers
// network failures and server-side storage trouble alike; the wizard has
// no special handling for the distinction.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// SubmissionGateway performs the one-shot create against the backend.
type SubmissionGateway interface {
	CreateSubmission(ctx context.Context, req *dto.SubmissionCreateRequest) (uuid.UUID, error)
}

// Client talks JSON over HTTP to the submissions endpoint. Each Client
// holds one idempotency key per logical submission: a failed attempt
// retries with the same key, a confirmed success rotates it so the next
// submission through this client is not mistaken for a replay.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	idempotencyKey string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		idempotencyKey: uuid.NewString(),
	}
}

type errorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message"`
	Details []domain.ValidationError `json:"details"`
}

// CreateSubmission posts the payload. Exactly one record is created per
// successful call. There is no retry policy: a failure is terminal for
// this attempt and the caller decides whether to try again.
func (c *Client) CreateSubmission(ctx context.Context, req *dto.SubmissionCreateRequest) (uuid.UUID, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, &Error{Kind: KindTransport, Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", c.idempotencyKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return uuid.Nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		var created dto.CreateResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return uuid.Nil, &Error{Kind: KindTransport, Message: "malformed create response"}
		}
		// The key has done its job; the next submission gets a fresh one.
		c.idempotencyKey = uuid.NewString()
		return created.ID, nil

	case resp.StatusCode == http.StatusBadRequest:
		return uuid.Nil, classifyValidationFailure(resp)

	case resp.StatusCode == http.StatusConflict:
		return uuid.Nil, &Error{Kind: KindDuplicate, Message: "submission already received"}

	default:
		var payload errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		message := payload.Error
		if message == "" {
			message = payload.Message
		}
		if message == "" {
			message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return uuid.Nil, &Error{Kind: KindTransport, Message: message}
	}
}

func classifyValidationFailure(resp *http.Response) *Error {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return &Error{Kind: KindMissingFields, Message: "validation failed"}
	}

	for _, detail := range payload.Details {
		if detail.Field == "email" && detail.Type == domain.ErrInvalidEmail {
			return &Error{Kind: KindInvalidEmail, Message: detail.Message}
		}
	}

	message := payload.Error
	if message == "" {
		message = "validation failed"
	}
	return &Error{Kind: KindMissingFields, Message: message}
}
