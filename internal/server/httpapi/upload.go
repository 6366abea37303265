package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/server/filestore"
)

// mimeExtensions whitelists accepted image types and maps them to the stored
// file extension.
var mimeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
}

// formMemoryLimit is how much of a multipart body ParseMultipartForm keeps
// in memory before spilling to disk.
const formMemoryLimit = 1 << 20

// parseUploadForm caps the request size, parses the multipart form, and
// persists the "image" part through the file store. It returns the stored
// path. The file is saved before the handler's main work; callers own the
// cleanup of the stored file when that work fails.
func parseUploadForm(w http.ResponseWriter, r *http.Request, files filestore.Store, maxBytes int64) (string, error) {
	// Slack on top of the image cap for the ordinary form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formMemoryLimit)

	if err := r.ParseMultipartForm(formMemoryLimit); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return "", fmt.Errorf("%w: missing image", common.ErrorValidation)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return "", fmt.Errorf("%w: image too large", common.ErrorValidation)
	}

	ext, ok := mimeExtensions[header.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("%w: invalid mime type", common.ErrorValidation)
	}

	path, err := files.Save(r.Context(), ext, file)
	if err != nil {
		return "", common.ErrorInternal
	}

	return path, nil
}

// discardUpload removes a stored upload after a failed request. Removal is
// best-effort; a failure here must never replace the error already owed to
// the caller.
func discardUpload(ctx context.Context, files filestore.Store, path string, logFn func(ctx context.Context, msg string, args ...any)) {
	if path == "" {
		return
	}
	if err := files.Remove(ctx, path); err != nil {
		logFn(ctx, "orphaned upload not removed", "path", path, "error", err)
	}
}
