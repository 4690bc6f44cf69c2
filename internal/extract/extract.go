package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

// ErrNotPDF is returned when the payload does not carry a PDF signature.
var ErrNotPDF = errors.New("payload is not a PDF")

// PDF extracts plain text from PDF documents.
type PDF struct{}

// Text returns the plain text of a PDF payload.
func (PDF) Text(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsPDF(data) {
		return "", ErrNotPDF
	}
	text, err := extractPDF(data)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return normalizeWhitespace(text), nil
}

// IsPDF reports whether data looks like a PDF document.
func IsPDF(data []byte) bool {
	return http.DetectContentType(data) == mimePDF
}

func extractPDF(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.Join(strings.Fields(line), " "); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
