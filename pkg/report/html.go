package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
)

// thumbnailWidth is the pixel width screenshots are scaled down to for the
// step list; the full image stays available behind a click.
const thumbnailWidth = 320

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath string // Path to write the HTML file
	Title      string // Report title (default: "Workflow Report")
}

// GenerateHTML writes a self-contained HTML report for one run. All
// screenshots are embedded as data URIs, so the file has no external
// dependencies.
func GenerateHTML(r *core.Report, cfg HTMLConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Workflow Report"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fmt.Sprintf("report-%s.html", r.WorkflowID)
	}

	data := buildHTMLData(r, cfg)
	html, err := renderHTML(data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title         string
	GeneratedAt   string
	WorkflowID    string
	Success       bool
	Verdict       string
	TotalDuration string
	StepsDone     int
	StepsTotal    int
	Error         string
	Steps         []StepHTMLData
}

// StepHTMLData contains step data formatted for HTML.
type StepHTMLData struct {
	core.StepReport
	StatusClass string
	DurationStr string
	Thumbnail   string // scaled-down data URI, empty when no screenshot
	FullImage   string // original data URI
}

func buildHTMLData(r *core.Report, cfg HTMLConfig) HTMLData {
	verdict := "Passed"
	if !r.Success {
		verdict = "Failed"
	}

	steps := make([]StepHTMLData, len(r.Steps))
	for i, s := range r.Steps {
		sd := StepHTMLData{
			StepReport:  s,
			StatusClass: string(s.Status),
			DurationStr: formatDuration(s.DurationMs),
		}
		if s.ScreenshotBase64 != "" {
			sd.FullImage = core.ScreenshotDataURI(s.ScreenshotBase64)
			sd.Thumbnail = thumbnail(s.ScreenshotBase64)
			if sd.Thumbnail == "" {
				sd.Thumbnail = sd.FullImage
			}
		}
		steps[i] = sd
	}

	return HTMLData{
		Title:         cfg.Title,
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05"),
		WorkflowID:    r.WorkflowID,
		Success:       r.Success,
		Verdict:       verdict,
		TotalDuration: formatDuration(r.TotalDurationMs),
		StepsDone:     r.StepsCompleted(),
		StepsTotal:    len(r.Steps),
		Error:         r.Error,
		Steps:         steps,
	}
}

// thumbnail decodes a base64 screenshot and scales it down to the list
// width. Undecodable images yield "" and the caller falls back to the full
// image.
func thumbnail(b64 string) string {
	raw, err := base64.StdEncoding.DecodeString(core.ScreenshotRaw(b64))
	if err != nil {
		return ""
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	if img.Bounds().Dx() <= thumbnailWidth {
		return core.ScreenshotDataURI(b64)
	}

	small := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f9fafb;
            --text-primary: #000000;
            --text-secondary: rgb(75, 85, 99);
            --text-muted: rgb(107, 114, 128);
            --border-color: #e5e7eb;
            --success: #22c55e;
            --success-bg: rgba(34, 197, 94, 0.1);
            --failed: #ef4444;
            --failed-bg: rgba(239, 68, 68, 0.08);
        }

        * { box-sizing: border-box; margin: 0; padding: 0; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: var(--bg-secondary);
            color: var(--text-primary);
            padding: 2rem;
        }

        .container { max-width: 960px; margin: 0 auto; }

        header {
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }

        h1 { font-size: 1.25rem; margin-bottom: 0.5rem; }

        .meta { color: var(--text-muted); font-size: 0.85rem; }

        .verdict {
            display: inline-block;
            padding: 0.2rem 0.6rem;
            border-radius: 4px;
            font-weight: 600;
            font-size: 0.85rem;
        }
        .verdict.ok { background: var(--success-bg); color: var(--success); }
        .verdict.bad { background: var(--failed-bg); color: var(--failed); }

        .run-error {
            margin-top: 0.75rem;
            padding: 0.6rem 0.8rem;
            background: var(--failed-bg);
            color: var(--failed);
            border-radius: 6px;
            font-size: 0.9rem;
        }

        .step {
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 1rem 1.25rem;
            margin-bottom: 0.75rem;
            display: flex;
            gap: 1.25rem;
        }

        .step-main { flex: 1; min-width: 0; }

        .step-head { display: flex; align-items: baseline; gap: 0.6rem; }

        .step-number { color: var(--text-muted); font-size: 0.8rem; }

        .step-action { font-weight: 600; }

        .step-status {
            font-size: 0.75rem;
            padding: 0.1rem 0.45rem;
            border-radius: 4px;
            text-transform: uppercase;
        }
        .step-status.success { background: var(--success-bg); color: var(--success); }
        .step-status.failed { background: var(--failed-bg); color: var(--failed); }

        .step-duration { margin-left: auto; color: var(--text-muted); font-size: 0.8rem; }

        .logs {
            margin-top: 0.5rem;
            font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
            font-size: 0.8rem;
            color: var(--text-secondary);
            white-space: pre-wrap;
        }

        .step-error { margin-top: 0.5rem; color: var(--failed); font-size: 0.85rem; }

        .extracted {
            margin-top: 0.5rem;
            background: var(--bg-secondary);
            border-radius: 6px;
            padding: 0.5rem 0.7rem;
            font-size: 0.85rem;
        }

        .shot img {
            width: 160px;
            border: 1px solid var(--border-color);
            border-radius: 6px;
            display: block;
        }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Title}}</h1>
        <p class="meta">{{.WorkflowID}} &middot; generated {{.GeneratedAt}}</p>
        <p style="margin-top: 0.75rem;">
            <span class="verdict {{if .Success}}ok{{else}}bad{{end}}">{{.Verdict}}</span>
            <span class="meta">{{.TotalDuration}} &middot; {{.StepsDone}}/{{.StepsTotal}} steps</span>
        </p>
        {{if .Error}}<div class="run-error">{{.Error}}</div>{{end}}
    </header>

    {{range .Steps}}
    <div class="step">
        <div class="step-main">
            <div class="step-head">
                <span class="step-number">#{{.StepNumber}}</span>
                <span class="step-action">{{.Action}}</span>
                <span class="step-status {{.StatusClass}}">{{.Status}}</span>
                <span class="step-duration">{{.DurationStr}}</span>
            </div>
            {{if .Logs}}<div class="logs">{{range .Logs}}{{.}}
{{end}}</div>{{end}}
            {{if .Error}}<div class="step-error">{{.Error}}</div>{{end}}
            {{if .ExtractedData}}<div class="extracted">{{range .ExtractedData}}{{.}}<br>{{end}}</div>{{end}}
        </div>
        {{if .Thumbnail}}
        <div class="shot">
            <a href="{{.FullImage}}" target="_blank"><img src="{{.Thumbnail}}" alt="screenshot"></a>
        </div>
        {{end}}
    </div>
    {{end}}
</div>
</body>
</html>
`
