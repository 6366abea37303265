package httpapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/snapshare/backend/internal/logging"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (noopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (noopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l noopLogger) With(args ...any) logging.Logger                  { return l }

type fakeVerifier struct {
	userID string
	email  string
	err    error
}

func (v *fakeVerifier) VerifyToken(token string) (string, string, error) {
	if v.err != nil {
		return "", "", v.err
	}
	return v.userID, v.email, nil
}

// fakeFiles records saves and removals made by the handlers.
type fakeFiles struct {
	saved   []string
	removed []string
	saveErr error
}

func (s *fakeFiles) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := "uploads/images/stored." + ext
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fakeFiles) Remove(ctx context.Context, path string) error {
	s.removed = append(s.removed, path)
	return nil
}

// multipartBody builds a multipart form with the given fields and one image
// part of the given content type.
func multipartBody(t *testing.T, fields map[string]string, imageType string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="pic"`)
	h.Set("Content-Type", imageType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
