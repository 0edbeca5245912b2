package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotentAndCountersWork(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// idempotent: calling again should be no-op
	require.NoError(t, Register(reg))

	IncRecord(0)
	IncRecord(1)
	IncRecord(1)
	ObserveRecordDuration(0.25)
	IncDelete()
	AddExpired(3)
	AddExpired(0)
	IncRead("stdout")
	IncError("record")

	assert.Equal(t, 1.0, testutil.ToFloat64(records.WithLabelValues("0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(records.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(deletes))
	assert.Equal(t, 3.0, testutil.ToFloat64(expired))
	assert.Equal(t, 1.0, testutil.ToFloat64(reads.WithLabelValues("stdout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(operationErrors.WithLabelValues("record")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, n := range []string{
		"cmdrec_records_total",
		"cmdrec_record_duration_seconds",
		"cmdrec_deletes_total",
		"cmdrec_expired_records_total",
		"cmdrec_reads_total",
		"cmdrec_operation_errors_total",
	} {
		assert.True(t, names[n], "expected to find metric %s", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	// EnableTextfile must register even after another registry took the collectors.
	require.NoError(t, Register(prometheus.NewRegistry()))
	require.NoError(t, EnableTextfile())
	IncDelete()
	path := filepath.Join(t.TempDir(), "cmdrec.prom")
	require.NoError(t, WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.Contains(out, "# TYPE cmdrec_deletes_total counter"), out)
	assert.False(t, strings.Contains(out, "go_goroutines"), "textfile must not contain runtime collectors")
}

func TestRegisterAfterTextfileStillExports(t *testing.T) {
	require.NoError(t, EnableTextfile())
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	IncDelete()

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "cmdrec_deletes_total" {
			found = true
		}
	}
	assert.True(t, found, "second registry must export the collectors")
}
