// Package core runs one sourcing session: the image set, background scoring,
// the analysis call and the bookkeeping that follows a proposal.
package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/alerts"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/history"
	"github.com/joseph-ayodele/sourcing-assistant/internal/images"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
	"github.com/joseph-ayodele/sourcing-assistant/internal/metrics"
	"github.com/joseph-ayodele/sourcing-assistant/internal/proposal"
	"github.com/joseph-ayodele/sourcing-assistant/internal/scoring"
)

// User-facing analysis messages.
const (
	MsgNoImages      = "Please upload at least one image of the product."
	MsgEmptyResponse = "Received an empty response from the AI."
	MsgFetchFailed   = "An error occurred while fetching the estimate. Please try again."
)

// Deps are the collaborators of a session. Scorer and Metrics may be nil.
type Deps struct {
	Analyzer llm.Analyzer
	Scorer   llm.ImageScorer
	History  *history.Store
	Alerts   *alerts.Engine
	Metrics  *metrics.SessionMetrics
}

// AnalyzeInput is the text side of a submission; the images come from the session.
type AnalyzeInput struct {
	Details  string
	Country  string
	Priority constants.Priority
}

// Outcome is a successful analysis.
type Outcome struct {
	Proposal      entity.Proposal
	Entry         entity.HistoryEntry
	Strategy      proposal.Strategy
	Notifications []alerts.Notification
}

type Processor struct {
	logger   *slog.Logger
	analyzer llm.Analyzer
	history  *history.Store
	alerts   *alerts.Engine
	metrics  *metrics.SessionMetrics

	images  *images.Manager
	scoring *scoring.Dispatcher // nil when no scorer is configured

	mu      sync.RWMutex
	encoded []entity.EncodedImage
	current *entity.Proposal
}

type options struct {
	limits         images.Limits
	scoringTimeout time.Duration
}

type Option func(*options)

func WithImageLimits(l images.Limits) Option {
	return func(o *options) { o.limits = l }
}

func WithScoringTimeout(d time.Duration) Option {
	return func(o *options) { o.scoringTimeout = d }
}

func NewProcessor(deps Deps, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	p := &Processor{
		logger:   logger,
		analyzer: deps.Analyzer,
		history:  deps.History,
		alerts:   deps.Alerts,
		metrics:  deps.Metrics,
	}
	p.images = images.NewManager(logger, images.WithLimits(o.limits), images.WithPublisher(p))
	if deps.Scorer != nil {
		p.scoring = scoring.NewDispatcher(deps.Scorer, p.images, logger,
			scoring.WithCallTimeout(o.scoringTimeout),
			scoring.WithMetrics(deps.Metrics),
		)
	}
	return p
}

// Images exposes the session's image set for reorder, removal and primary picks.
func (p *Processor) Images() *images.Manager {
	return p.images
}

// Publish implements images.Publisher. A changed image set no longer
// matches the selected history entry, so the selection is dropped; the
// proposal on screen stays until the next analysis.
func (p *Processor) Publish(encoded []entity.EncodedImage) {
	p.mu.Lock()
	p.encoded = encoded
	p.mu.Unlock()
	p.history.Deselect()
}

// AddImages adds a batch and starts scoring every accepted image.
func (p *Processor) AddImages(ctx context.Context, files []entity.UploadedImage) (images.AddResult, error) {
	res, err := p.images.Add(ctx, files)
	if err != nil {
		return res, err
	}
	if p.scoring == nil {
		return res, nil
	}
	for _, s := range res.Accepted {
		if s.Encoded == nil {
			continue
		}
		p.scoring.Submit(s.ID, *s.Encoded)
	}
	return res, nil
}

// WaitScoring blocks until every submitted scoring call has reported.
func (p *Processor) WaitScoring() {
	if p.scoring != nil {
		p.scoring.Wait()
	}
}

// Analyze sends the published images and the user's text to the analyzer,
// parses the reply, records it in history as the active entry and evaluates
// price alerts against it.
func (p *Processor) Analyze(ctx context.Context, in AnalyzeInput) (Outcome, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	log := p.logger.With("req_id", rid)

	p.mu.RLock()
	imgs := append([]entity.EncodedImage(nil), p.encoded...)
	p.mu.RUnlock()
	if len(imgs) == 0 {
		return Outcome{}, common.NewValidationError(MsgNoImages)
	}

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	priority, ok := constants.CanonicalPriority(string(in.Priority))
	if !ok {
		log.Warn("analysis.priority.unknown", "priority", in.Priority)
	}

	log.Info("analysis.request", "images", len(imgs), "priority", priority, "country", in.Country)
	start := time.Now()
	text, err := p.analyzer.Analyze(ctx, llm.AnalysisRequest{
		Images:            imgs,
		UserDetails:       in.Details,
		ExportCountryHint: in.Country,
		PriorityHint:      priority,
	})
	p.metrics.ObserveAnalysis(time.Since(start), err)
	if err != nil {
		log.Error("analysis.request.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		if errors.Is(err, common.ErrValidation) {
			return Outcome{}, err
		}
		return Outcome{}, common.NewNetworkError(MsgFetchFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("analysis.response.empty")
		return Outcome{}, common.NewParseError(MsgEmptyResponse, nil)
	}

	res := proposal.ParseProposal(text)
	p.metrics.RecordParse(string(res.Strategy), res.OK())
	if !res.OK() {
		log.Warn("analysis.parse.failed", "strategy", res.Strategy, "error", res.Err)
		return Outcome{}, common.NewParseError(proposal.MsgInvalidFormat, res.Err)
	}
	prop := res.Value

	entry := p.history.NewEntry(prop, priority)
	if err := p.history.Append(ctx, entry); err != nil {
		log.Error("history.save.failed", "id", entry.ID, "error", err)
	}
	if _, err := p.history.Select(entry.ID); err != nil {
		log.Error("history.select.failed", "id", entry.ID, "error", err)
	}

	p.mu.Lock()
	p.current = &prop
	p.mu.Unlock()

	notes := p.alerts.Evaluate(prop)
	p.metrics.AddAlertsTriggered(len(notes))

	log.Info("analysis.ok",
		"product", prop.ProductName,
		"strategy", res.Strategy,
		"tiers", len(prop.DDPPriceTiers),
		"alerts", len(notes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Outcome{Proposal: prop, Entry: entry, Strategy: res.Strategy, Notifications: notes}, nil
}

// SelectHistory makes a stored proposal the current one.
func (p *Processor) SelectHistory(id string) (entity.Proposal, []alerts.Notification, error) {
	prop, err := p.history.Select(id)
	if err != nil {
		return entity.Proposal{}, nil, err
	}
	p.mu.Lock()
	p.current = &prop
	p.mu.Unlock()
	return prop, p.alerts.Evaluate(prop), nil
}

// Current returns the proposal on screen, if any.
func (p *Processor) Current() (entity.Proposal, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return entity.Proposal{}, false
	}
	return *p.current, true
}

// Notifications re-evaluates alerts against the current proposal.
func (p *Processor) Notifications() []alerts.Notification {
	prop, ok := p.Current()
	if !ok {
		return nil
	}
	return p.alerts.Evaluate(prop)
}

// Shutdown drains outstanding scoring calls.
func (p *Processor) Shutdown(ctx context.Context) {
	if p.scoring != nil {
		p.scoring.Shutdown(ctx)
	}
}
