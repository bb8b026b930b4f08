package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCLILogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger := NewCLILogger(level)
			require.NotNil(t, logger)
		})
	}
}

func TestCLIHandler_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.Info("loaded artifacts")
	logger.Warn("threshold missing")
	logger.Error("prediction failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "loaded artifacts", lines[0])
	assert.Equal(t, "warning: threshold missing", lines[1])
	assert.Equal(t, "error: prediction failed", lines[2])
}

func TestCLIHandler_NoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info").Error("boom")
	assert.NotContains(t, buf.String(), colorRed)
	assert.NotContains(t, buf.String(), colorReset)
}

func TestCLIHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)
	h.color = true
	logger := slog.New(h)

	logger.Error("boom")
	logger.Warn("hmm")
	logger.Info("fine")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], colorRed))
	assert.True(t, strings.HasPrefix(lines[1], colorYellow))
	assert.Equal(t, "fine", lines[2])
}

func TestCLIHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		logFunc      func(*slog.Logger)
		shouldLog    bool
	}{
		{"info handler logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("test") }, true},
		{"info handler filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("test") }, false},
		{"debug handler logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("test") }, true},
		{"error handler filters warn", slog.LevelError, func(l *slog.Logger) { l.Warn("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(slog.New(NewCLIHandler(&buf, tt.handlerLevel)))
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestCLIHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info").With("dir", "/models")

	logger.Info("fallback", "file", "threshold.txt", "value", 0.5)

	assert.Equal(t, "fallback: dir=/models file=threshold.txt value=0.5\n", buf.String())
}

func TestCLIHandler_WithAttrs_DoesNotMutate(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)

	assert.Equal(t, h, h.WithAttrs(nil))

	with := h.WithAttrs([]slog.Attr{slog.String("k", "v")})
	require.NotEqual(t, h, with)

	slog.New(h).Info("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info").WithGroup("artifacts").WithGroup("schema")

	logger.Warn("legacy columns file")

	assert.Equal(t, "warning: [artifacts.schema] legacy columns file\n", buf.String())
}

func TestCLIHandler_WithGroup_Empty(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)

	assert.Equal(t, h, h.WithGroup(""))
	slog.New(h.WithGroup("")).Info("no prefix")
	assert.Equal(t, "no prefix\n", buf.String())
}

func TestCLIHandler_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.WithGroup("batch").Info("scored", "n", 1)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 50)
	for _, l := range lines {
		assert.Equal(t, "[batch] scored: n=1", l)
	}
}

func TestSetDefaultCLILogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	SetDefaultCLILogger("debug")
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"  debug  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}
