// internal/payloadcheck/handler_test.go
package payloadcheck

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"therapy-recommendations/internal/common/config"
	"therapy-recommendations/internal/common/errors"
	"therapy-recommendations/internal/common/logger"
	"therapy-recommendations/internal/common/metrics"
	"therapy-recommendations/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

const sortingGame = `{
  "recommendations": [
    {
      "title": "Sorting Game",
      "description": "Sort objects by color",
      "age_group": "5-7",
      "disorder": "ADHD",
      "activity": "Sorting",
      "materials": "Colored blocks",
      "duration": "15 min",
      "tips": "Praise effort",
      "similarity": 0.87
    }
  ]
}`

func createTestConfig() *Config {
	return &Config{
		DefaultKind: registry.KindRecommendationsResponse,
		MaxBytes:    MaxPayloadBytes,
	}
}

func createTestChecker(t *testing.T, cfg *Config) (*Checker, *metrics.Recorder) {
	if cfg == nil {
		cfg = createTestConfig()
	}
	rec := metrics.New()
	return NewChecker(cfg, logger.NewTestLogger(t), rec), rec
}

func writePayload(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// ==========================
// Core Functionality Tests
// ==========================

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name           string
		kind           string
		payload        string
		wantValid      bool
		wantNormalized string
		wantViolation  string
	}{
		{
			name:           "text request without top_n",
			kind:           registry.KindTextRequest,
			payload:        `{"text":"child avoids eye contact"}`,
			wantValid:      true,
			wantNormalized: `{"text":"child avoids eye contact","top_n":5}`,
		},
		{
			name:           "age request",
			kind:           registry.KindAgeRequest,
			payload:        `{"age":7,"disorder":"ADHD"}`,
			wantValid:      true,
			wantNormalized: `{"age":7,"disorder":"ADHD"}`,
		},
		{
			name:           "default kind is used",
			kind:           "",
			payload:        `{"recommendations":[]}`,
			wantValid:      true,
			wantNormalized: `{"recommendations":[]}`,
		},
		{
			name:          "therapy task missing age_group",
			kind:          registry.KindTherapyTask,
			payload:       `{"title":"t","description":"d","disorder":"x","activity":"a","materials":"m","duration":"5","tips":"p"}`,
			wantViolation: "age_group",
		},
		{
			name:          "response with bad nested task",
			kind:          registry.KindRecommendationsResponse,
			payload:       `{"recommendations":[{"title":"only a title"}]}`,
			wantViolation: "recommendations.0.description",
		},
		{
			name:          "not json",
			kind:          registry.KindAgeRequest,
			payload:       `age=7`,
			wantViolation: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, _ := createTestChecker(t, nil)

			report, err := checker.Check(context.Background(), tt.kind, []byte(tt.payload))
			require.NoError(t, err)
			require.NotNil(t, report)

			assert.Equal(t, tt.wantValid, report.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.wantNormalized, string(report.Normalized))
				assert.Empty(t, report.Violations)
				return
			}

			assert.Equal(t, string(errors.ErrCodeMalformedPayload), report.ErrorCode)
			assert.Equal(t, "payload", report.Category)
			assert.False(t, report.Retryable)
			assert.Nil(t, report.Normalized)
			fields := make([]string, 0, len(report.Violations))
			for _, v := range report.Violations {
				fields = append(fields, v.Field)
			}
			assert.Contains(t, fields, tt.wantViolation)
		})
	}
}

func TestChecker_Check_SimilarityPreserved(t *testing.T) {
	checker, _ := createTestChecker(t, nil)

	report, err := checker.Check(context.Background(), registry.KindRecommendationsResponse, []byte(sortingGame))
	require.NoError(t, err)
	require.True(t, report.Valid)
	assert.Contains(t, string(report.Normalized), `"age_group":"5-7"`)
	assert.Contains(t, string(report.Normalized), `"similarity":0.87`)
}

func TestChecker_Check_RejectionLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	checker := NewChecker(createTestConfig(), logger.NewZapAdapter(zap.New(core)), metrics.New())

	report, err := checker.Check(context.Background(), registry.KindAgeRequest, []byte(`{"age":7}`))
	require.NoError(t, err)
	require.False(t, report.Valid)

	entries := logs.FilterMessage("payload rejected").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, registry.KindAgeRequest, ctx["kind"])
	assert.Equal(t, string(errors.ErrCodeMalformedPayload), ctx["errorCode"])
	assert.Equal(t, "payload", ctx["category"])
	assert.Equal(t, "payloadcheck", entries[0].LoggerName)
}

func TestChecker_Check_UnknownKind(t *testing.T) {
	checker, rec := createTestChecker(t, nil)

	report, err := checker.Check(context.Background(), "franchise", []byte(`{}`))
	assert.Nil(t, report)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownPayloadKind)
	assert.Equal(t, 0, testutil.CollectAndCount(rec.PayloadChecks))
}

func TestChecker_Check_Cancelled(t *testing.T) {
	checker, _ := createTestChecker(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := checker.Check(ctx, registry.KindAgeRequest, []byte(`{"age":7,"disorder":"ADHD"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChecker_Metrics(t *testing.T) {
	checker, rec := createTestChecker(t, nil)
	ctx := context.Background()

	_, err := checker.Check(ctx, registry.KindAgeRequest, []byte(`{"age":7,"disorder":"ADHD"}`))
	require.NoError(t, err)
	_, err = checker.Check(ctx, registry.KindAgeRequest, []byte(`{"age":"seven","disorder":"ADHD"}`))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.PayloadChecks.WithLabelValues(registry.KindAgeRequest)))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		rec.PayloadRejections.WithLabelValues(registry.KindAgeRequest, string(errors.ErrCodeMalformedPayload))))
}

// ==========================
// File Tests
// ==========================

func TestChecker_CheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := writePayload(t, dir, "good.json", sortingGame)
	bad := writePayload(t, dir, "bad.json", `{"recommendations":null}`)
	empty := writePayload(t, dir, "empty.json", `{"recommendations":[]}`)

	tests := []struct {
		name         string
		failFast     bool
		wantChecked  int
		wantRejected int
	}{
		{name: "checks every file", failFast: false, wantChecked: 3, wantRejected: 1},
		{name: "fail fast stops at first rejection", failFast: true, wantChecked: 2, wantRejected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			cfg.FailFast = tt.failFast
			checker, _ := createTestChecker(t, cfg)

			summary, err := checker.CheckFiles(context.Background(), "", []string{good, bad, empty})
			require.NoError(t, err)

			assert.Equal(t, tt.wantChecked, summary.Checked)
			assert.Equal(t, tt.wantRejected, summary.Rejected)
			assert.Equal(t, tt.wantChecked-tt.wantRejected, summary.Valid)
			assert.Equal(t, good, summary.Reports[0].Source)
			assert.False(t, summary.Reports[1].Valid)
		})
	}
}

func TestChecker_CheckFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		checker, _ := createTestChecker(t, nil)
		_, err := checker.CheckFile(context.Background(), registry.KindAgeRequest, filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err) || strings.Contains(err.Error(), "open payload"))
	})

	t.Run("too large", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.MaxBytes = 8
		checker, _ := createTestChecker(t, cfg)

		path := writePayload(t, dir, "large.json", `{"age":7,"disorder":"ADHD"}`)
		_, err := checker.CheckFile(context.Background(), registry.KindAgeRequest, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds 8 bytes")
	})
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(&config.Config{Check: config.CheckConfig{DefaultKind: registry.KindTherapyTask, FailFast: true}})

	assert.Equal(t, registry.KindTherapyTask, cfg.DefaultKind)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, int64(MaxPayloadBytes), cfg.MaxBytes)
}
