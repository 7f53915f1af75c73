// Package ingest turns uploaded résumé documents into plain text. The
// rest of the pipeline only ever sees the resulting string.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"cvintake/internal/errors"
)

// Document is an uploaded résumé reduced to its text.
type Document struct {
	Filename string
	FileType string
	FileSize int64
	Text     string
}

// Reader extracts text from résumé uploads, staging them under a
// working directory for the converter.
type Reader struct {
	uploadsDir string
}

// NewReader builds a Reader staging uploads under uploadsDir.
func NewReader(uploadsDir string) *Reader {
	return &Reader{uploadsDir: uploadsDir}
}

// Read stages the upload on disk and extracts its text. PDF and DOCX
// go through the document converter; plain text is read as-is.
func (r *Reader) Read(filename string, reader io.Reader) (*Document, error) {
	fileType := strings.ToLower(filepath.Ext(filename))
	switch fileType {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt", ".txt":
	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported file type %q, expected .pdf, .docx or .txt", fileType), nil)
	}

	if err := os.MkdirAll(r.uploadsDir, 0o755); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to create uploads dir %s", r.uploadsDir), err)
	}
	filePath := filepath.Join(r.uploadsDir, filepath.Base(filename))

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to stage upload %s", filePath), err)
	}
	size, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to save upload %s", filePath), err)
	}

	var text string
	switch fileType {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(filePath)
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("failed to extract text from %s", filename), err)
		}
		text = res.Body
	case ".txt":
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("failed to read %s", filename), err)
		}
		text = string(content)
	}

	return &Document{
		Filename: filename,
		FileType: fileType,
		FileSize: size,
		Text:     text,
	}, nil
}
