package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	r := New()

	r.Observe("therapy-task", "", 2*time.Millisecond)
	r.Observe("therapy-task", "MALFORMED_PAYLOAD", time.Millisecond)
	r.Observe("age-request", "", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.PayloadChecks.WithLabelValues("therapy-task")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PayloadChecks.WithLabelValues("age-request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PayloadRejections.WithLabelValues("therapy-task", "MALFORMED_PAYLOAD")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.CheckDuration))
}

func TestRecorder_RejectionExposition(t *testing.T) {
	r := New()
	r.Observe("text-request", "MALFORMED_PAYLOAD", time.Millisecond)

	expected := `
# HELP payload_rejections_total Total number of payloads rejected, by kind and error code
# TYPE payload_rejections_total counter
payload_rejections_total{error_code="MALFORMED_PAYLOAD",kind="text-request"} 1
`
	err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "payload_rejections_total")
	assert.NoError(t, err)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Observe("recommendations-response", "", time.Millisecond)

	path := filepath.Join(t.TempDir(), "payload_check.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `payload_checks_total{kind="recommendations-response"} 1`)
	assert.Contains(t, string(data), "payload_check_duration_seconds_count")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Observe("age-request", "", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.PayloadChecks.WithLabelValues("age-request")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PayloadChecks.WithLabelValues("age-request")))
}
