// Package output writes the JSON artifacts consumed by the dashboard.
package output

import (
	"encoding/json"
	"path/filepath"

	"github.com/Ever-fnf/imc/internal/common"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/spf13/afero"
)

// JSONWriter writes indented UTF-8 JSON files.
type JSONWriter struct {
	Fs afero.Fs
}

// NewJSONWriter returns a writer on the OS filesystem.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Fs: afero.NewOsFs()}
}

// Write encodes v to path with four-space indentation and without escaping
// non-ASCII or HTML characters. The file is replaced atomically.
func (w *JSONWriter) Write(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := w.Fs.MkdirAll(dir, common.DirPermissionNormal); err != nil {
		return apperrors.OutputError("Failed to create output directory", path, err)
	}

	tmp, err := afero.TempFile(w.Fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.OutputError("Failed to create temporary file", path, err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		_ = w.Fs.Remove(tmpName)
		return apperrors.Wrap(err, apperrors.ErrCodeEncoding, "Failed to encode JSON").
			WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = w.Fs.Remove(tmpName)
		return apperrors.OutputError("Failed to write output file", path, err)
	}

	if err := w.Fs.Chmod(tmpName, common.FilePermissionNormal); err != nil {
		_ = w.Fs.Remove(tmpName)
		return apperrors.OutputError("Failed to set output file permissions", path, err)
	}
	if err := w.Fs.Rename(tmpName, path); err != nil {
		_ = w.Fs.Remove(tmpName)
		return apperrors.OutputError("Failed to move output file into place", path, err)
	}
	return nil
}
