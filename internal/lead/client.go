// Package lead submits a finished proposal to the sourcing team's lead endpoint.
package lead

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/metrics"
)

const (
	SuccessMessage = "Thank you! Our sourcing expert will contact you shortly."
	FailureMessage = "Failed to save lead. Please try again."

	msgInvalidEmail    = "A valid email is required."
	msgInvalidProposal = "Valid proposal data is required."
)

// Result is what the user sees after a submission.
type Result struct {
	OK      bool
	Message string
	ID      string // server-assigned, when returned
}

type request struct {
	Email    string          `json:"email"`
	Proposal entity.Proposal `json:"proposal"`
}

type response struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
	metrics  *metrics.SessionMetrics
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithMetrics(m *metrics.SessionMetrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit validates locally, then posts {email, proposal}. Failures carry the
// server's error text when it sent one, else FailureMessage. Never retried.
func (c *Client) Submit(ctx context.Context, email string, p entity.Proposal) (Result, error) {
	email = strings.TrimSpace(email)
	v := common.NewValidator().
		Field("email", email, common.Required, common.MaxLength(254), common.Email)
	if v.HasErrors() {
		return Result{Message: msgInvalidEmail}, common.NewValidationError(msgInvalidEmail)
	}
	if strings.TrimSpace(p.ProductName.String()) == "" {
		return Result{Message: msgInvalidProposal}, common.NewValidationError(msgInvalidProposal)
	}

	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}

	raw, status, err := postJSON(ctx, c.http, c.endpoint, request{Email: email, Proposal: p}, reqID, c.logger)
	var body response
	if len(raw) > 0 {
		if jerr := json.Unmarshal(raw, &body); jerr != nil {
			c.logger.Debug("lead.response.not_json", "req_id", reqID, "status", status)
		}
	}
	if err != nil {
		c.metrics.RecordLead(false)
		msg := FailureMessage
		if strings.TrimSpace(body.Error) != "" {
			msg = body.Error
		}
		c.logger.Warn("lead.submit.failed", "req_id", reqID, "status", status, "error", err)
		return Result{Message: msg}, common.NewNetworkError(msg, err)
	}

	c.metrics.RecordLead(true)
	c.logger.Info("lead.submit.ok", "req_id", reqID, "product", p.ProductName, "lead_id", body.ID)
	return Result{OK: true, Message: SuccessMessage, ID: body.ID}, nil
}
