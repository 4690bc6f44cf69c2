package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func buildPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		doc.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromGeneratedPDF(t *testing.T) {
	data := buildPDF(t, "Jane Doe", "Go Developer")

	text, err := PDF{}.Text(context.Background(), data)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Jane") {
		t.Fatalf("expected name in extracted text, got %q", text)
	}
}

func TestTextRejectsNonPDF(t *testing.T) {
	_, err := PDF{}.Text(context.Background(), []byte("hello world"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestTextMalformedPDF(t *testing.T) {
	_, err := PDF{}.Text(context.Background(), []byte("%PDF-1.4\nnot really a pdf"))
	if err == nil {
		t.Fatalf("expected error for truncated pdf")
	}
}

func TestTextCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (PDF{}).Text(ctx, buildPDF(t, "x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("  Jane   Doe \r\n\n\tGo  Dev ")
	if got != "Jane Doe\nGo Dev" {
		t.Fatalf("unexpected %q", got)
	}
}
