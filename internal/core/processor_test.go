package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/alerts"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/history"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
	"github.com/joseph-ayodele/sourcing-assistant/internal/proposal"
	"github.com/joseph-ayodele/sourcing-assistant/internal/repository"
)

const fencedReply = "Here is your quote:\n```json\n" +
	`{"productName":"Comb Headband","ddpPriceTiers":[{"quantity":1000,"pricePerUnit":"$0.98"}]}` +
	"\n```"

type fakeAnalyzer struct {
	mu    sync.Mutex
	reply string
	err   error
	last  llm.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req llm.AnalysisRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	return f.reply, f.err
}

type fakeScorer struct{ scores map[string]int }

func (f fakeScorer) ScoreImage(_ context.Context, img entity.EncodedImage) (llm.QualityScore, error) {
	s, ok := f.scores[img.Base64]
	if !ok {
		return llm.QualityScore{}, common.NewScoringError("no score", nil)
	}
	return llm.QualityScore{QualityScore: s, QualityRating: "Good"}, nil
}

func photo(name, data string) entity.UploadedImage {
	return entity.UploadedImage{Name: name, MIMEType: "image/jpeg", SizeBytes: int64(len(data)), Data: []byte(data)}
}

type fixture struct {
	proc     *Processor
	analyzer *fakeAnalyzer
	history  *history.Store
	alerts   *alerts.Engine
}

func newFixture(t *testing.T, scorer llm.ImageScorer) fixture {
	t.Helper()
	state := repository.NewMemoryStore()
	f := fixture{
		analyzer: &fakeAnalyzer{reply: fencedReply},
		history:  history.NewStore(state, nil),
		alerts:   alerts.NewEngine(state, nil),
	}
	f.proc = NewProcessor(Deps{
		Analyzer: f.analyzer,
		Scorer:   scorer,
		History:  f.history,
		Alerts:   f.alerts,
	}, nil)
	t.Cleanup(func() { f.proc.Shutdown(context.Background()) })
	return f
}

func TestAnalyze_RequiresImages(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.proc.Analyze(context.Background(), AnalyzeInput{Details: "headband"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, MsgNoImages, common.UserMessage(err))
}

func TestAnalyze_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.alerts.SetAlert(ctx, "Comb Headband", 1000, 1.00))

	_, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa"), photo("b.jpg", "bbb")})
	require.NoError(t, err)
	require.NoError(t, f.proc.Images().SetPrimary(1))

	out, err := f.proc.Analyze(ctx, AnalyzeInput{Details: "plastic comb headband", Country: "Vietnam", Priority: "urgent"})
	require.NoError(t, err)

	assert.Equal(t, "Comb Headband", out.Proposal.ProductName.String())
	assert.Equal(t, proposal.StrategyFenced, out.Strategy)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, 1000, out.Notifications[0].Quantity)

	req := f.analyzer.last
	require.Len(t, req.Images, 2)
	assert.Equal(t, "YmJi", req.Images[0].Base64, "primary goes first")
	assert.Equal(t, constants.PriorityHigh, req.PriorityHint)
	assert.Equal(t, "Vietnam", req.ExportCountryHint)

	list := f.history.List()
	require.Len(t, list, 1)
	assert.Equal(t, out.Entry.ID, list[0].ID)
	assert.Equal(t, constants.PriorityHigh, list[0].Priority)
	active, ok := f.history.Active()
	require.True(t, ok)
	assert.Equal(t, out.Entry.ID, active.ID)

	cur, ok := f.proc.Current()
	require.True(t, ok)
	assert.Equal(t, "Comb Headband", cur.ProductName.String())
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		kind    error
		message string
	}{
		{"network", "", errors.New("dial tcp: timeout"), common.ErrNetwork, MsgFetchFailed},
		{"empty reply", "   ", nil, common.ErrParse, MsgEmptyResponse},
		{"no json", "sorry, I cannot help", nil, common.ErrParse, proposal.MsgInvalidFormat},
		{"bad fenced json", "```json\n{\"productName\": }\n```", nil, common.ErrParse, proposal.MsgInvalidFormat},
		{"no tiers", `{"productName":"x"}`, nil, common.ErrParse, proposal.MsgInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, nil)
			f.analyzer.reply, f.analyzer.err = tt.reply, tt.err
			_, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa")})
			require.NoError(t, err)

			_, err = f.proc.Analyze(ctx, AnalyzeInput{})

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.message, common.UserMessage(err))
			assert.Empty(t, f.history.List())
			_, ok := f.proc.Current()
			assert.False(t, ok)
		})
	}
}

func TestAnalyze_FailureClearsPreviousProposal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa")})
	require.NoError(t, err)
	_, err = f.proc.Analyze(ctx, AnalyzeInput{})
	require.NoError(t, err)

	f.analyzer.reply = "sorry, I cannot help"
	_, err = f.proc.Analyze(ctx, AnalyzeInput{})
	require.Error(t, err)

	_, ok := f.proc.Current()
	assert.False(t, ok)
	assert.Empty(t, f.proc.Notifications())
	assert.Len(t, f.history.List(), 1)
}

func TestImageChangeDeselectsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa")})
	require.NoError(t, err)
	out, err := f.proc.Analyze(ctx, AnalyzeInput{})
	require.NoError(t, err)
	_, ok := f.history.Active()
	require.True(t, ok)

	_, err = f.proc.AddImages(ctx, []entity.UploadedImage{photo("b.jpg", "bbb")})
	require.NoError(t, err)

	_, ok = f.history.Active()
	assert.False(t, ok)
	cur, ok := f.proc.Current()
	require.True(t, ok, "the proposal stays on screen")
	assert.Equal(t, "Comb Headband", cur.ProductName.String())

	_, _, err = f.proc.SelectHistory(out.Entry.ID)
	require.NoError(t, err)
	require.NoError(t, f.proc.Images().Remove(0))
	_, ok = f.history.Active()
	assert.False(t, ok)
}

func TestAddImages_ScoresAndPicksPrimary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakeScorer{scores: map[string]int{"YWFh": 60, "YmJi": 85, "Y2Nj": 40}})

	res, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa"), photo("b.jpg", "bbb"), photo("c.jpg", "ccc")})
	require.NoError(t, err)
	require.Len(t, res.Accepted, 3)

	f.proc.WaitScoring()

	assert.Equal(t, 1, f.proc.Images().Primary())
	for _, s := range f.proc.Images().Snapshot() {
		assert.False(t, s.Quality.Pending)
	}

	_, err = f.proc.Analyze(ctx, AnalyzeInput{})
	require.NoError(t, err)
	assert.Equal(t, "YmJi", f.analyzer.last.Images[0].Base64)
}

func TestSelectHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	_, err := f.proc.AddImages(ctx, []entity.UploadedImage{photo("a.jpg", "aaa")})
	require.NoError(t, err)
	out, err := f.proc.Analyze(ctx, AnalyzeInput{})
	require.NoError(t, err)

	assert.Empty(t, f.proc.Notifications())
	require.NoError(t, f.alerts.SetAlert(ctx, "Comb Headband", 1000, 0.99))
	assert.Len(t, f.proc.Notifications(), 1)

	prop, notes, err := f.proc.SelectHistory(out.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Comb Headband", prop.ProductName.String())
	assert.Len(t, notes, 1)

	_, _, err = f.proc.SelectHistory("item-0")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
