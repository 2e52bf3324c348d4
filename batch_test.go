package intake_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadBatch_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	specs := []intake.Spec{
		{FieldKey: "avatar", TargetDir: dir, AllowedExtensions: filevalidator.ImageExtensions()},
		{FieldKey: "resume", TargetDir: dir, AllowedExtensions: filevalidator.DocumentExtensions()},
		{FieldKey: "cover", TargetDir: dir, AllowedExtensions: filevalidator.ImageExtensions()},
	}
	src := intake.Submissions{
		"avatar": stage(t, "me.png", pngBytes),
		"resume": stage(t, "cv.pdf", pdfBytes),
		"cover":  stage(t, "cover.php", []byte("<?php")),
	}

	result := osUploader(t).UploadBatch(context.Background(), specs, src)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Succeeded())
	require.Len(t, result.Outcomes, 3)

	for i, key := range []string{"avatar", "resume", "cover"} {
		assert.Equal(t, key, result.Outcomes[i].FieldKey(), "outcomes keep declaration order")
	}
	for _, o := range result.Outcomes[:2] {
		s, ok := o.Success()
		require.True(t, ok)
		_, err := os.Stat(s.FullPath)
		assert.NoError(t, err)
	}

	errs := result.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, intake.KindExtensionNotAllowed, errs[0].Kind)
	assert.Equal(t, "cover", errs[0].FieldKey)
}

func TestUploadBatch_ConsumesSubmissionOnce(t *testing.T) {
	dir := t.TempDir()
	spec := imageSpec(dir)
	src := intake.Submissions{"photo": stage(t, "photo.png", pngBytes)}

	result := osUploader(t).UploadBatch(context.Background(), []intake.Spec{spec, spec}, src)

	assert.Equal(t, 0, result.Failed)
	assert.True(t, result.Outcomes[0].Uploaded())
	assert.True(t, result.Outcomes[1].OK())
	assert.False(t, result.Outcomes[1].Uploaded())
	assert.Equal(t, []string{"photo.png"}, dirNames(t, dir))
}

func TestUploadBatch_ConcurrentSameName(t *testing.T) {
	const n = 16
	dir := t.TempDir()

	specs := make([]intake.Spec, n)
	src := intake.Submissions{}
	for i := range n {
		key := fmt.Sprintf("file%d", i)
		specs[i] = intake.Spec{FieldKey: key, TargetDir: dir, AllowedExtensions: []string{".png"}}
		src[key] = stage(t, "same.png", pngBytes)
	}

	result := osUploader(t, intake.WithConcurrency(4)).UploadBatch(context.Background(), specs, src)
	require.Equal(t, 0, result.Failed)

	names := map[string]bool{}
	for _, o := range result.Outcomes {
		s, _ := o.Success()
		assert.False(t, names[s.FileName], "name %s handed out twice", s.FileName)
		names[s.FileName] = true
		assert.Equal(t, dir, filepath.Dir(s.FullPath))
	}
	assert.Len(t, dirNames(t, dir), n)
	assert.True(t, names["same.png"])
	assert.True(t, names[fmt.Sprintf("same_%d.png", n-1)])
}

func TestUploadBatch_Empty(t *testing.T) {
	result := osUploader(t).UploadBatch(context.Background(), nil, nil)
	assert.Empty(t, result.Outcomes)
	assert.Equal(t, 0, result.Failed)
}
