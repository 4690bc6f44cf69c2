package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resume-manager/resume/model"
)

const chromeTimeout = 60 * time.Second

// Chrome prints an HTML rendering of the resume through headless Chrome.
type Chrome struct {
	ExecPath string
	Timeout  time.Duration
}

// NewChrome returns a Chrome renderer. execPath may be empty to use the
// browser found on PATH.
func NewChrome(execPath string) *Chrome {
	return &Chrome{ExecPath: execPath, Timeout: chromeTimeout}
}

// HTML renders content into a standalone HTML page.
func HTML(content model.Content) (string, error) {
	doc := buildDocument(content)
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{document: doc, Styles: StyleMap}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render prints the HTML page to an A4 PDF.
func (r *Chrome) Render(ctx context.Context, content model.Content) ([]byte, error) {
	html, err := HTML(content)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = chromeTimeout
	}
	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches.
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

type pageData struct {
	document
	Styles map[string]TextStyle
}

var pageTemplate = template.Must(template.New("resume").Funcs(template.FuncMap{
	"css": func(s TextStyle) template.CSS {
		weight, fontStyle := "normal", "normal"
		if s.Bold {
			weight = "bold"
		}
		if s.Italic {
			fontStyle = "italic"
		}
		return template.CSS(fmt.Sprintf("font-size:%.0fpt;font-weight:%s;font-style:%s;color:#%s", s.Size, weight, fontStyle, s.Color))
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
@page { size: A4; margin: 18mm; }
body { font-family: Helvetica, Arial, sans-serif; margin: 0; }
header { text-align: center; margin-bottom: 8pt; }
h2 { border-bottom: 1px solid #{{(index .Styles "sectionHeading").Color}}; margin: 10pt 0 4pt; }
ul { margin: 2pt 0 6pt 14pt; padding: 0; }
p { margin: 2pt 0; }
</style>
</head>
<body>
<header>
{{- if .Name}}<h1 style="{{css (index .Styles "name")}}">{{.Name}}</h1>{{end}}
{{- if .Title}}<div style="{{css (index .Styles "title")}}">{{.Title}}</div>{{end}}
{{- if .Contact}}<div style="{{css (index .Styles "meta")}}">{{range $i, $c := .Contact}}{{if $i}} | {{end}}{{$c}}{{end}}</div>{{end}}
</header>
{{- range .Sections}}
<section>
<h2 style="{{css (index $.Styles "sectionHeading")}}">{{.Title}}</h2>
{{- if .Text}}<p style="{{css (index $.Styles "body")}}">{{.Text}}</p>{{end}}
{{- range .Entries}}
{{- if and .Heading .Text}}<p style="{{css (index $.Styles "body")}}"><strong>{{.Heading}}:</strong> {{.Text}}</p>
{{- else if .Heading}}<p style="{{css (index $.Styles "roleLine")}}">{{.Heading}}</p>
{{- else if .Text}}<p style="{{css (index $.Styles "body")}}">{{.Text}}</p>{{end}}
{{- if .Meta}}<p style="{{css (index $.Styles "meta")}}">{{.Meta}}</p>{{end}}
{{- if .Bullets}}<ul style="{{css (index $.Styles "body")}}">{{range .Bullets}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- end}}
</section>
{{- end}}
</body>
</html>
`))
