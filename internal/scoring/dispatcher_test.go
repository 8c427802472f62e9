package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
	"github.com/joseph-ayodele/sourcing-assistant/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeScorer struct {
	mu      sync.Mutex
	scores  map[string]int // by base64 payload
	fail    map[string]bool
	release chan struct{} // when set, calls block until it closes or ctx ends
	slots   []string
}

func (f *fakeScorer) ScoreImage(ctx context.Context, img entity.EncodedImage) (llm.QualityScore, error) {
	f.mu.Lock()
	f.slots = append(f.slots, common.SlotIDFromContext(ctx))
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return llm.QualityScore{}, common.NewScoringError("cancelled", ctx.Err())
		}
	}
	if f.fail[img.Base64] {
		return llm.QualityScore{}, common.NewScoringError("remote failure", errors.New("503"))
	}
	return llm.QualityScore{QualityScore: f.scores[img.Base64], QualityRating: "good", Feedback: "ok"}, nil
}

type recordingSink struct {
	mu      sync.Mutex
	results map[string]entity.QualityResult
}

func (s *recordingSink) ApplyQuality(slotID string, q entity.QualityResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		s.results = map[string]entity.QualityResult{}
	}
	s.results[slotID] = q
}

func TestDispatcher_DeliversBySlot(t *testing.T) {
	scorer := &fakeScorer{scores: map[string]int{"a": 55, "b": 91}}
	sink := &recordingSink{}
	reg := prometheus.NewRegistry()
	m, err := metrics.NewSessionMetrics(reg)
	require.NoError(t, err)

	d := NewDispatcher(scorer, sink, nil, WithMetrics(m))
	require.True(t, d.Submit("slot-a", entity.EncodedImage{Base64: "a"}))
	require.True(t, d.Submit("slot-b", entity.EncodedImage{Base64: "b"}))
	d.Wait()

	require.Len(t, sink.results, 2)
	assert.Equal(t, 55, *sink.results["slot-a"].Score)
	assert.Equal(t, 91, *sink.results["slot-b"].Score)
	assert.Equal(t, constants.RatingGood, sink.results["slot-b"].Rating)
	assert.False(t, sink.results["slot-a"].Pending)
	assert.ElementsMatch(t, []string{"slot-a", "slot-b"}, scorer.slots)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScoringTotal.WithLabelValues(metrics.OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ScoringInFlight))

	d.Shutdown(context.Background())
}

func TestDispatcher_FailureBecomesErrorResult(t *testing.T) {
	scorer := &fakeScorer{fail: map[string]bool{"bad": true}, scores: map[string]int{"good": 70}}
	sink := &recordingSink{}

	d := NewDispatcher(scorer, sink, nil)
	d.Submit("s1", entity.EncodedImage{Base64: "bad"})
	d.Submit("s2", entity.EncodedImage{Base64: "good"})
	d.Wait()

	failed := sink.results["s1"]
	assert.Equal(t, constants.RatingError, failed.Rating)
	assert.Equal(t, "Analysis failed to complete.", failed.Feedback)
	assert.False(t, failed.Pending)
	assert.Nil(t, failed.Score)
	assert.Equal(t, 70, *sink.results["s2"].Score)

	d.Shutdown(context.Background())
}

func TestDispatcher_SubmitAfterShutdown(t *testing.T) {
	d := NewDispatcher(&fakeScorer{}, &recordingSink{}, nil)
	d.Shutdown(context.Background())
	assert.False(t, d.Submit("late", entity.EncodedImage{}))
}

func TestDispatcher_ShutdownDeadlineCancelsCalls(t *testing.T) {
	scorer := &fakeScorer{release: make(chan struct{})}
	sink := &recordingSink{}
	d := NewDispatcher(scorer, sink, nil)
	d.Submit("stuck", entity.EncodedImage{Base64: "x"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d.Shutdown(ctx)

	assert.Equal(t, constants.RatingError, sink.results["stuck"].Rating)
}

func TestDispatcher_CallTimeout(t *testing.T) {
	scorer := &fakeScorer{release: make(chan struct{})}
	sink := &recordingSink{}
	d := NewDispatcher(scorer, sink, nil, WithCallTimeout(10*time.Millisecond))
	d.Submit("slow", entity.EncodedImage{Base64: "x"})
	d.Wait()

	assert.Equal(t, constants.RatingError, sink.results["slow"].Rating)
	d.Shutdown(context.Background())
}
