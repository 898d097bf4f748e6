package observability

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{
		Level:   "debug",
		Format:  FormatJSON,
		Output:  &buf,
		Service: "imc",
		Version: "1.0.0",
	})
	require.NoError(t, err)

	logger.WithField("tab", "plans").Info("test message")

	output := buf.String()
	assert.Contains(t, output, `"msg":"test message"`)
	assert.Contains(t, output, `"service":"imc"`)
	assert.Contains(t, output, `"tab":"plans"`)
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerInvalidConfig(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(LoggerConfig{Format: "xml"})
	assert.Error(t, err)
}

func TestMetricsFinish(t *testing.T) {
	m := NewMetrics()
	start := time.Now().Add(-2 * time.Second)

	m.RowsLoaded(StageIngest, "PROMOTION_PLAN", 42)
	m.Finish(StageIngest, start, nil)
	m.Finish(StageReport, start, errors.New("boom"))

	assert.Equal(t, float64(42), testutil.ToFloat64(m.rowsLoaded.WithLabelValues(StageIngest, "PROMOTION_PLAN")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lastRunSuccess.WithLabelValues(StageIngest)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.lastRunSuccess.WithLabelValues(StageReport)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.runDuration.WithLabelValues(StageIngest)), 2.0)
}

func TestMetricsWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Promotions(10, 2)

	path := filepath.Join(t.TempDir(), "imc.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "imc_promotions_skipped 2"))
	assert.True(t, strings.Contains(string(data), "imc_promotions_total 10"))

	assert.NoError(t, m.WriteTextfile(""))
}
