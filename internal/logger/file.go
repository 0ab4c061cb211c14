package logger

import (
	"io"
	"os"
	"path/filepath"
)

// OpenLogFile opens path for append, creating parent directories as needed,
// so a workflow's per-run log file can be created without a separate mkdir
// step at each call site.
func OpenLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Tee returns a writer that duplicates everything written to it across all
// of dst, used to send a run's logs to both stderr and a per-run log file.
func Tee(dst ...io.Writer) io.Writer {
	return io.MultiWriter(dst...)
}
