package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useTempState(t *testing.T) {
	t.Helper()
	t.Setenv("STATE_DSN", "sqlite://"+filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestAlertsRoundTripThroughCLI(t *testing.T) {
	useTempState(t)

	out, err := run(t, "alerts", "set", "Comb Headband", "1000", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Alert set: Comb Headband at 1,000 units <= $1.50")

	out, err = run(t, "alerts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Comb Headband")
	assert.Contains(t, out, "$1.50")

	_, err = run(t, "alerts", "set", "Comb Headband", "1000", "0")
	require.NoError(t, err)
	out, err = run(t, "alerts", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Comb Headband")
}

func TestAlertsSet_RejectsBadQuantity(t *testing.T) {
	useTempState(t)
	_, err := run(t, "alerts", "set", "x", "lots", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestHistoryList_Empty(t *testing.T) {
	useTempState(t)
	out, err := run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved proposals.")
}

func TestExport_NeedsHistory(t *testing.T) {
	useTempState(t)
	_, err := run(t, "export")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAnalyze_RequiresAPIKey(t *testing.T) {
	useTempState(t)
	t.Setenv("GEMINI_API_KEY", "")
	_, err := run(t, "analyze", "--no-score")
	require.Error(t, err)
	assert.Equal(t, "GEMINI_API_KEY is required", common.UserMessage(err))
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(common.LogConfig{Level: "chatty", Format: "text"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	l, err := newLogger(common.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}
