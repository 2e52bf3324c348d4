package metrics

import (
	"context"
	"testing"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/driver/memory"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"))

	disk := memory.New()
	content := []byte("plain text")
	require.NoError(t, afero.WriteFile(disk.Fs(), "/tmp/a", content, 0o644))
	require.NoError(t, afero.WriteFile(disk.Fs(), "/tmp/b", content, 0o644))

	u := intake.NewUploader(disk, intake.WithObserver(c))
	spec := intake.Spec{FieldKey: "doc", TargetDir: "/docs", AllowedExtensions: []string{"txt"}, CreateDirIfMissing: true}
	ctx := context.Background()

	out := u.Upload(ctx, spec, intake.Submissions{"doc": {OriginalName: "a.txt", TempPath: "/tmp/a", Size: 10}})
	require.NoError(t, out.Err())

	out = u.Upload(ctx, spec, intake.Submissions{"doc": {OriginalName: "b.exe", TempPath: "/tmp/b", Size: 10}})
	require.Error(t, out.Err())

	out = u.Upload(ctx, spec, intake.Submissions{"doc": {Status: filevalidator.StatusPartial, OriginalName: "c.txt"}})
	require.Error(t, out.Err())

	out = u.Upload(ctx, spec, intake.Submissions{})
	require.NoError(t, out.Err())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.items.WithLabelValues("doc", ResultUploaded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.items.WithLabelValues("doc", ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.items.WithLabelValues("doc", ResultSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(string(intake.KindExtensionNotAllowed), "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(string(intake.KindTransport), string(filevalidator.ReasonPartial))))
	assert.Equal(t, float64(len(content)), testutil.ToFloat64(c.committed))
	assert.Equal(t, 3, testutil.CollectAndCount(c.duration, "test_item_duration_seconds"))
}

func TestResult(t *testing.T) {
	assert.Equal(t, ResultSkipped, Result(intake.Outcome{}))
}
