package httpform

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/gobeaver/intake"
	"github.com/gobeaver/intake/filevalidator"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader parses a one-part form so the header can be opened.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	w, err := mw.CreateFormFile("f", name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["f"], 1)
	return form.File["f"][0]
}

func TestStagePart_NoFileName(t *testing.T) {
	s := NewStager(afero.NewMemMapFs(), "/staging")
	sub := s.stagePart("photo", &multipart.FileHeader{Header: textproto.MIMEHeader{}})
	assert.Equal(t, filevalidator.StatusNoFile, sub.Status)
	assert.Empty(t, sub.TempPath)
}

func TestStagePart_WriteFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/staging", 0o755))
	s := NewStager(afero.NewReadOnlyFs(fs), "/staging")

	sub := s.stagePart("photo", fileHeader(t, "a.png", []byte("data")))
	assert.Equal(t, filevalidator.StatusCantWrite, sub.Status)
}

func TestStager_NamesAreUnique(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/staging", 0o755))
	s := NewStager(fs, "/staging")

	a := s.stagePart("a", fileHeader(t, "a.txt", []byte("one")))
	b := s.stagePart("b", fileHeader(t, "a.txt", []byte("two")))
	require.Equal(t, filevalidator.StatusOK, a.Status)
	require.Equal(t, filevalidator.StatusOK, b.Status)
	assert.NotEqual(t, a.TempPath, b.TempPath)
	assert.Equal(t, int64(3), a.Size)
	assert.Equal(t, "application/octet-stream", a.DeclaredType)

	s.Cleanup(intake.Submissions{"a": a, "b": b, "c": {}})
	entries, err := afero.ReadDir(fs, "/staging")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsTooLarge(t *testing.T) {
	assert.True(t, isTooLarge(fmt.Errorf("multipart: %w", &http.MaxBytesError{Limit: 1})))
	assert.False(t, isTooLarge(errors.New("unexpected EOF")))
}
