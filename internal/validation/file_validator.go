package validation

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	// ErrNotWorkbook is returned for uploads that are not .xlsx workbooks
	ErrNotWorkbook = errors.New("not an xlsx workbook")
	// ErrTooLarge is returned for uploads above the size limit
	ErrTooLarge = errors.New("upload exceeds size limit")
	// ErrEmptyUpload is returned for zero-byte uploads
	ErrEmptyUpload = errors.New("upload is empty")
)

// zipMagic opens every OOXML package
var zipMagic = []byte("PK\x03\x04")

// FileValidator checks uploaded annotation workbooks before they are parsed
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a new file validator. A maxBytes of zero or less
// disables the size check.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the configured upload limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateUpload checks the client supplied name and declared size
func (v *FileValidator) ValidateUpload(name string, size int64) error {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".xlsx" {
		v.logger.Warn("rejected upload with wrong extension",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("%w: %s has extension %q", ErrNotWorkbook, base, ext)
	}

	// Excel lock files share the extension but hold no workbook
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejected temporary Excel file",
			slog.String("file", base))
		return fmt.Errorf("%w: %s is a temporary Excel file", ErrNotWorkbook, base)
	}

	if size == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyUpload, base)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("rejected oversized upload",
			slog.String("file", base),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return fmt.Errorf("%w: %d bytes > %d", ErrTooLarge, size, v.maxBytes)
	}

	v.logger.Debug("upload validated",
		slog.String("file", base),
		slog.Int64("size", size))
	return nil
}

// SniffWorkbook verifies that r starts like a zip container and returns a
// reader that replays the inspected bytes.
func (v *FileValidator) SniffWorkbook(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zipMagic))
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(head) == 0 {
				return nil, ErrEmptyUpload
			}
			return nil, fmt.Errorf("%w: truncated content", ErrNotWorkbook)
		}
		return nil, fmt.Errorf("inspect upload: %w", err)
	}
	if !bytes.Equal(head, zipMagic) {
		v.logger.Warn("rejected upload without zip signature")
		return nil, fmt.Errorf("%w: missing zip signature", ErrNotWorkbook)
	}
	return br, nil
}
