package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"resume-manager/resume/model"
)

const (
	marginMM   = 18.0
	lineHeight = 5.0
	fontFamily = "Helvetica"
)

// DefaultFontFamily names the TTF files looked up in FontDir.
const DefaultFontFamily = "DejaVuSansCondensed"

// FPDF draws resumes with the pure-Go fpdf library. It needs no external
// processes.
//
// Without FontDir text is drawn in the core Helvetica font, which only
// covers cp1252; other characters print as "?". With FontDir set, the
// UTF-8 TrueType family FontFamily is embedded instead: FontDir must hold
// <FontFamily>.ttf and may hold -Bold, -Oblique and -BoldOblique variants.
type FPDF struct {
	// Compress toggles stream compression; tests turn it off to read text back.
	Compress   bool
	FontDir    string
	FontFamily string
}

// NewFPDF returns an FPDF renderer with compression enabled. fontDir may be
// empty.
func NewFPDF(fontDir string) *FPDF {
	return &FPDF{Compress: true, FontDir: fontDir, FontFamily: DefaultFontFamily}
}

// Render draws content onto A4 pages.
func (r *FPDF) Render(ctx context.Context, content model.Content) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := buildDocument(content)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle(doc.Name, true)

	w := &pdfWriter{pdf: pdf, family: fontFamily, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if r.FontDir != "" {
		family, err := r.registerFonts(pdf)
		if err != nil {
			return nil, err
		}
		w.family = family
		w.tr = func(s string) string { return s }
	}
	pdf.AddPage()
	w.header(doc)
	for _, sec := range doc.Sections {
		w.section(sec)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("draw pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// registerFonts embeds the UTF-8 family from FontDir. A missing style
// variant reuses the regular face.
func (r *FPDF) registerFonts(pdf *fpdf.Fpdf) (string, error) {
	family := r.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	regular, err := os.ReadFile(filepath.Join(r.FontDir, family+".ttf"))
	if err != nil {
		return "", fmt.Errorf("load font: %w", err)
	}
	pdf.AddUTF8FontFromBytes(family, "", regular)
	for _, v := range []struct{ style, suffix string }{
		{"B", "-Bold"},
		{"I", "-Oblique"},
		{"BI", "-BoldOblique"},
	} {
		data := regular
		b, err := os.ReadFile(filepath.Join(r.FontDir, family+v.suffix+".ttf"))
		switch {
		case err == nil:
			data = b
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("load font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(family, v.style, data)
	}
	if err := pdf.Error(); err != nil {
		return "", fmt.Errorf("register font: %w", err)
	}
	return family, nil
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (w *pdfWriter) use(name string) TextStyle {
	s := style(name)
	fontStyle := ""
	if s.Bold {
		fontStyle += "B"
	}
	if s.Italic {
		fontStyle += "I"
	}
	w.pdf.SetFont(w.family, fontStyle, s.Size)
	w.pdf.SetTextColor(rgb(s.Color))
	return s
}

func (w *pdfWriter) line(styleName, text, align string) {
	s := w.use(styleName)
	w.pdf.MultiCell(0, lineHeight+s.Size/5, w.tr(text), "", align, false)
}

func (w *pdfWriter) header(doc document) {
	if doc.Name != "" {
		w.line("name", doc.Name, "C")
	}
	if doc.Title != "" {
		w.line("title", doc.Title, "C")
	}
	if len(doc.Contact) > 0 {
		w.line("meta", joinNonEmpty("  |  ", doc.Contact...), "C")
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) section(sec section) {
	w.pdf.Ln(2)
	w.line("sectionHeading", sec.Title, "L")
	left, _, right, _ := w.pdf.GetMargins()
	pageW, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(rgb(HeadingColor))
	w.pdf.Line(left, y, pageW-right, y)
	w.pdf.Ln(1.5)

	if sec.Text != "" {
		w.line("body", sec.Text, "L")
	}
	for _, e := range sec.Entries {
		w.entry(e)
	}
}

func (w *pdfWriter) entry(e entry) {
	switch {
	case e.Heading != "" && e.Text != "":
		// Skill rows read "Category: items" on one line.
		w.line("body", e.Heading+": "+e.Text, "L")
	case e.Heading != "":
		w.line("roleLine", e.Heading, "L")
	case e.Text != "":
		w.line("body", e.Text, "L")
	}
	if e.Meta != "" {
		w.line("meta", e.Meta, "L")
	}
	for _, b := range e.Bullets {
		w.line("body", "• "+b, "L")
	}
	if e.Heading != "" && e.Text == "" {
		w.pdf.Ln(1)
	}
}
