// internal/workers/ingestion/extract-resume-text/handler_test.go
package extractresumetext

import (
	"context"
	"errors"
	"testing"

	"recruit-workers/internal/common/logger"
	"recruit-workers/internal/ingestion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	data        []byte
	contentType string
	err         error
	bucket      string
	key         string
}

func (f *fakeStorage) GetObject(ctx context.Context, bucket, key string) ([]byte, string, error) {
	f.bucket = bucket
	f.key = key
	return f.data, f.contentType, f.err
}

func newHandler(storage ObjectFetcher) *Handler {
	return NewHandler(LoadConfig("resumes"), storage, logger.NewNoOpLogger())
}

func TestExecute_PlainTextResume(t *testing.T) {
	storage := &fakeStorage{data: []byte("  eight years of Go  "), contentType: "text/plain"}
	h := newHandler(storage)

	out, err := h.Execute(context.Background(), &Input{Key: "uploads/alice.txt"})

	require.NoError(t, err)
	assert.Equal(t, "eight years of Go", out.ResumeText)
	assert.Equal(t, "resumes", storage.bucket)
	assert.Equal(t, len("eight years of Go"), out.CharCount)
}

func TestExecute_ExplicitBucketOverridesDefault(t *testing.T) {
	storage := &fakeStorage{data: []byte("text"), contentType: "text/plain"}
	h := newHandler(storage)

	_, err := h.Execute(context.Background(), &Input{Bucket: "archive", Key: "k"})

	require.NoError(t, err)
	assert.Equal(t, "archive", storage.bucket)
}

func TestExecute_DeclaredContentTypeWins(t *testing.T) {
	storage := &fakeStorage{data: []byte("body"), contentType: "application/octet-stream"}
	h := newHandler(storage)

	out, err := h.Execute(context.Background(), &Input{Key: "k", ContentType: "text/plain"})

	require.NoError(t, err)
	assert.Equal(t, "text/plain", out.ContentType)
}

func TestExecute_StorageError(t *testing.T) {
	h := newHandler(&fakeStorage{err: errors.New("s3 unavailable")})

	_, err := h.Execute(context.Background(), &Input{Key: "k"})

	assert.ErrorIs(t, err, ErrStorageFetch)
}

func TestExecute_UnsupportedContentType(t *testing.T) {
	h := newHandler(&fakeStorage{data: []byte{0x89, 0x50}, contentType: "image/png"})

	_, err := h.Execute(context.Background(), &Input{Key: "k"})

	assert.ErrorIs(t, err, ingestion.ErrUnsupportedType)
}

func TestExecute_CorruptPDFIsExtractionError(t *testing.T) {
	h := newHandler(&fakeStorage{data: []byte("not a pdf"), contentType: "application/pdf"})

	_, err := h.Execute(context.Background(), &Input{Key: "k"})

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExecute_EmptyResume(t *testing.T) {
	h := newHandler(&fakeStorage{data: []byte("   \n  "), contentType: "text/plain"})

	_, err := h.Execute(context.Background(), &Input{Key: "k"})

	assert.ErrorIs(t, err, ErrEmptyResume)
}
