package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info", "json").Info("hello", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	NewLogger(&buf, "info", "text").Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	NewLogger(&buf, "warn", "json").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(NewLogger(&buf, "debug", "json"))
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "modelseed-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "test")
	assert.NotNil(t, ctx)
	span.SetError(errors.New("boom"))
	span.End()
}

func TestInitTracing_Stdout(t *testing.T) {
	t.Cleanup(func() { Tracer = otel.Tracer("modelseed") })

	var buf bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		ServiceName: "modelseed-test",
		Environment: "test",
		Enabled:     true,
		Exporter:    "stdout",
		Writer:      &buf,
	})
	require.NoError(t, err)

	span, _ := NewSpan(context.Background(), "seeder.Execute")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"seeder.Execute"`)
	assert.Contains(t, buf.String(), "modelseed-test")
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "jaeger"})
	assert.ErrorIs(t, err, ErrUnknownExporter)
}

func TestWriteMetrics(t *testing.T) {
	RowsInserted.WithLabelValues("Game").Add(3)
	ObserveRun(time.Now(), nil)
	TrackInsert("gorm", "Game")()

	path := filepath.Join(t.TempDir(), "modelseed.prom")
	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `modelseed_rows_inserted_total{entity="Game"}`)
	assert.Contains(t, string(data), `modelseed_runs_total{result="success"}`)
	assert.Contains(t, string(data), `modelseed_insert_latency_seconds_count{entity="Game",store="gorm"}`)
}
