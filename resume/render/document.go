// Package render turns structured resume content into PDF documents.
package render

import (
	"context"
	"fmt"
	"strings"

	"resume-manager/resume/model"
)

// Renderer produces a PDF from structured content.
type Renderer interface {
	Render(ctx context.Context, content model.Content) ([]byte, error)
}

// Kinds accepted by New.
const (
	KindFPDF   = "fpdf"
	KindChrome = "chrome"
)

// New returns the renderer named by kind. chromePath is only used by the
// chrome renderer and fontDir only by fpdf; both may be empty.
func New(kind, chromePath, fontDir string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFPDF:
		return NewFPDF(fontDir), nil
	case KindChrome, "chromedp":
		return NewChrome(chromePath), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", kind)
	}
}

// document is the layout-neutral view both renderers draw.
type document struct {
	Name     string
	Title    string
	Contact  []string
	Sections []section
}

type section struct {
	Title   string
	Text    string
	Entries []entry
}

type entry struct {
	Heading string
	Meta    string
	Text    string
	Bullets []string
}

func buildDocument(c model.Content) document {
	doc := document{
		Name:  strings.TrimSpace(c.PersonalInfo.Name),
		Title: strings.TrimSpace(c.PersonalInfo.Title),
	}
	p := c.PersonalInfo
	doc.Contact = nonEmpty(p.Email, p.Phone, p.Location, p.LinkedIn, p.Website)

	if s := strings.TrimSpace(c.Summary); s != "" {
		doc.Sections = append(doc.Sections, section{Title: "Summary", Text: s})
	}

	if len(c.WorkExperience) > 0 {
		sec := section{Title: "Work Experience"}
		for _, job := range c.WorkExperience {
			heading := job.Position
			if job.Company != "" {
				heading = joinNonEmpty(" | ", job.Position, job.Company)
			}
			bullets := append(nonEmpty(job.Responsibilities...), nonEmpty(job.Achievements...)...)
			sec.Entries = append(sec.Entries, entry{
				Heading: heading,
				Meta:    joinNonEmpty(" · ", job.DateRange, job.Location),
				Bullets: bullets,
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if len(c.Education) > 0 {
		sec := section{Title: "Education"}
		for _, edu := range c.Education {
			degree := joinNonEmpty(", ", edu.Degree, edu.FieldOfStudy)
			meta := joinNonEmpty(" · ", edu.DateRange, gpa(edu.GPA))
			sec.Entries = append(sec.Entries, entry{
				Heading: joinNonEmpty(" | ", degree, edu.Institution),
				Meta:    meta,
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if c.Skills.Count() > 0 {
		sec := section{Title: "Skills"}
		for _, group := range c.Skills {
			items := nonEmpty(group.Items...)
			if len(items) == 0 {
				continue
			}
			sec.Entries = append(sec.Entries, entry{
				Heading: model.CategoryTitle(group.Category),
				Text:    strings.Join(items, ", "),
			})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if certs := nonEmpty(c.Certifications...); len(certs) > 0 {
		doc.Sections = append(doc.Sections, section{Title: "Certifications", Entries: []entry{{Bullets: certs}}})
	}
	return doc
}

func gpa(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return "GPA " + strings.TrimSpace(v)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}
