package diag

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogSinkWritesBudgetWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := NewSlogSink(logger)

	sink.BudgetExceeded(BudgetEvent{
		Operation: "scenario_sweep",
		Budget:    2 * time.Second,
		Elapsed:   3 * time.Second,
		Attrs:     []slog.Attr{slog.Float64("width", 50), slog.Int("scenarios", 21)},
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "time budget exceeded", record["msg"])
	assert.Equal(t, "scenario_sweep", record["operation"])
	assert.Equal(t, 50.0, record["width"])
	assert.Equal(t, 21.0, record["scenarios"])
}

func TestSlogSinkWritesInvariantWarning(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	sink.InvariantViolated(InvariantEvent{
		Invariant: "common_area_sum",
		Expected:  100,
		Actual:    99.5,
		Tolerance: 0.01,
	})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "invariant violated", record["msg"])
	assert.Equal(t, "common_area_sum", record["invariant"])
	assert.Equal(t, 99.5, record["actual"])
}

func TestNewSlogSinkNilLoggerUsesDefault(t *testing.T) {
	sink := NewSlogSink(nil)
	assert.NotNil(t, sink.logger)
}

func TestRecorderAndMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b, Nop{}}

	m.BudgetExceeded(BudgetEvent{Operation: "x"})
	m.InvariantViolated(InvariantEvent{Invariant: "y"})

	for _, r := range []*Recorder{a, b} {
		require.Len(t, r.Budgets(), 1)
		require.Len(t, r.Invariants(), 1)
		assert.Equal(t, "x", r.Budgets()[0].Operation)
		assert.Equal(t, "y", r.Invariants()[0].Invariant)
	}
}
