package utils

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

// PublicUploadPrefix is the URL prefix stored images are served back under.
const PublicUploadPrefix = "/uploads"

// Result is the outcome of handling the optional file on a form submission.
// Path is only meaningful when Attached is true.
type Result struct {
	Attached bool
	Path     string
}

// Filename derives the stored name for an upload from its original name and
// the current time: the millisecond timestamp plus the original extension.
// Keeping the extension preserves content-type inference when the file is
// served back.
func Filename(original string, now time.Time) string {
	return fmt.Sprintf("%d%s", now.UnixMilli(), filepath.Ext(original))
}

// SaveImage persists the single optional file on the named multipart field
// into dir and returns its public path. A request without that field, or
// without a multipart body at all, is not an error: it yields an unattached
// Result. Write failures are surfaced to the caller.
func SaveImage(ctx *gin.Context, field, dir string) (Result, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return Result{}, nil
		}
		return Result{}, err
	}

	name := Filename(file.Filename, time.Now())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, err
	}
	if err := ctx.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return Result{}, err
	}

	return Result{Attached: true, Path: PublicUploadPrefix + "/" + name}, nil
}
