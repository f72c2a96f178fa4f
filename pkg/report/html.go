package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/devicelab-dev/robot-report/pkg/result"
)

// DefaultOutputPath is the report filename used when none is given.
const DefaultOutputPath = "robot_report.html"

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath   string // Path to write the HTML file
	Title        string // Report title (default: "Robot Framework Test Report")
	KeywordLimit int    // Max rows in the keyword usage table (default: 20)
}

// GenerateHTML flattens the result tree and writes a self-contained HTML
// report. The file is either fully written or not written at all: rendering
// happens into a buffer before the single write.
func GenerateHTML(root *result.Suite, cfg HTMLConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Robot Framework Test Report"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.KeywordLimit == 0 {
		cfg.KeywordLimit = 20
	}

	data := buildHTMLData(Flatten(root), cfg)

	html, err := renderHTML(data)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	if err := os.WriteFile(cfg.OutputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}

	return nil
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title       string
	GeneratedAt string
	Report      *Report
	TopKeywords []KeywordCount
}

func buildHTMLData(r *Report, cfg HTMLConfig) HTMLData {
	return HTMLData{
		Title:       cfg.Title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Report:      r,
		TopKeywords: r.TopKeywords(cfg.KeywordLimit),
	}
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"statusClass": func(s result.Status) string {
			return strings.ToLower(strings.ReplaceAll(string(s), " ", "-"))
		},
		"plural": func(n int) string {
			if n == 1 {
				return ""
			}
			return "s"
		},
	}).Parse(htmlTemplate)
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
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600&display=swap" rel="stylesheet">
    <style>
        :root {
            --background: #ffffff;
            --surface: #f5f5f7;
            --primary: #0071e3;
            --accent: #5e5ce6;
            --success: #34c759;
            --error: #ff3b30;
            --warning: #ff9500;
            --text-primary: #1d1d1f;
            --text-secondary: #86868b;
            --border: #d2d2d7;
            --shadow: rgba(0, 0, 0, 0.1);
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --background: #1d1d1f;
                --surface: #2c2c2e;
                --primary: #0a84ff;
                --accent: #5e5ce6;
                --success: #30d158;
                --error: #ff453a;
                --warning: #ff9f0a;
                --text-primary: #f5f5f7;
                --text-secondary: #98989d;
                --border: #444;
                --shadow: rgba(0, 0, 0, 0.3);
            }
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--background);
            color: var(--text-primary);
            line-height: 1.5;
            -webkit-font-smoothing: antialiased;
        }

        .container {
            max-width: 1000px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            padding: 20px 0;
            border-bottom: 1px solid var(--border);
            margin-bottom: 30px;
            display: flex;
            justify-content: space-between;
            align-items: baseline;
        }

        h1 {
            font-weight: 500;
            font-size: 32px;
            letter-spacing: -0.5px;
        }

        .generated-at {
            color: var(--text-secondary);
            font-size: 14px;
        }

        .summary {
            display: flex;
            gap: 16px;
            margin-bottom: 30px;
            flex-wrap: wrap;
        }

        .summary-card {
            flex: 1;
            min-width: 180px;
            background-color: var(--surface);
            padding: 24px;
            border-radius: 12px;
            box-shadow: 0 4px 12px var(--shadow);
            display: flex;
            flex-direction: column;
            align-items: center;
            transition: transform 0.2s ease;
        }

        .summary-card:hover {
            transform: translateY(-4px);
        }

        .summary-value {
            font-size: 36px;
            font-weight: 500;
            margin-bottom: 8px;
            color: var(--primary);
        }

        .summary-label {
            font-size: 14px;
            color: var(--text-secondary);
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .section-title {
            margin: 40px 0 20px 0;
            font-size: 24px;
            font-weight: 500;
        }

        .keyword-table {
            width: 100%;
            border-collapse: collapse;
            background-color: var(--surface);
            border-radius: 12px;
            overflow: hidden;
            box-shadow: 0 2px 8px var(--shadow);
        }

        .keyword-table th, .keyword-table td {
            text-align: left;
            padding: 12px 24px;
            border-bottom: 1px solid var(--border);
            font-size: 14px;
        }

        .keyword-table th {
            color: var(--text-secondary);
            font-weight: 500;
            text-transform: uppercase;
            font-size: 12px;
            letter-spacing: 0.5px;
        }

        .keyword-table tr:last-child td {
            border-bottom: none;
        }

        .keyword-table td.count {
            color: var(--primary);
            font-weight: 600;
        }

        .suite-header {
            cursor: pointer;
            background-color: var(--surface);
            padding: 20px 24px;
            margin: 12px 0;
            border-radius: 12px;
            box-shadow: 0 2px 8px var(--shadow);
            transition: all 0.2s ease;
            display: flex;
            justify-content: space-between;
            align-items: center;
            border-left: 4px solid var(--accent);
        }

        .suite-header:hover {
            transform: translateY(-2px);
            box-shadow: 0 4px 12px var(--shadow);
        }

        .suite-header.fail {
            border-left-color: var(--error);
        }

        .suite-name {
            font-weight: 600;
            font-size: 18px;
        }

        .suite-meta {
            font-size: 14px;
            color: var(--text-secondary);
            margin-top: 4px;
        }

        .suite-tests {
            display: none;
            margin: 8px 0 24px 24px;
        }

        .suite-tests.visible {
            display: block;
        }

        .test-case {
            cursor: pointer;
            background-color: var(--surface);
            padding: 16px 24px;
            margin: 12px 0;
            border-radius: 12px;
            box-shadow: 0 2px 8px var(--shadow);
            transition: all 0.2s ease;
            display: flex;
            justify-content: space-between;
            align-items: center;
            border-left: 4px solid var(--primary);
        }

        .test-case:hover {
            transform: translateY(-2px);
            box-shadow: 0 4px 12px var(--shadow);
        }

        .test-case.fail {
            border-left-color: var(--error);
        }

        .test-name {
            font-weight: 500;
            flex: 1;
        }

        .status-badge {
            font-size: 12px;
            padding: 4px 10px;
            border-radius: 10px;
            font-weight: 600;
            margin-left: 12px;
        }

        .status-badge.pass { background-color: var(--success); color: white; }
        .status-badge.fail { background-color: var(--error); color: white; }
        .status-badge.skip { background-color: var(--warning); color: white; }

        .chevron {
            color: var(--text-secondary);
            transition: transform 0.3s ease;
            margin-left: 12px;
        }

        [aria-expanded="true"] > .chevron {
            transform: rotate(90deg);
        }

        .keywords {
            display: none;
            margin: 8px 0 24px 24px;
            border-left: 2px solid var(--border);
            padding-left: 24px;
        }

        .keywords.visible {
            display: block;
        }

        .keyword {
            padding: 12px;
            margin: 8px 0;
            background-color: var(--surface);
            border-radius: 8px;
            box-shadow: 0 1px 4px var(--shadow);
            border-left: 4px solid var(--accent);
        }

        .keyword.setup {
            border-left-color: var(--success);
        }

        .keyword.teardown {
            border-left-color: var(--warning);
        }

        .keyword-content {
            display: flex;
            justify-content: space-between;
            align-items: center;
        }

        .keyword-args {
            font-size: 13px;
            color: var(--text-secondary);
            margin-top: 4px;
        }

        .type-badge {
            font-size: 12px;
            padding: 4px 8px;
            border-radius: 4px;
            background-color: var(--border);
            color: var(--text-secondary);
            margin-left: 8px;
        }

        .keyword-duration {
            font-size: 12px;
            color: var(--text-secondary);
            margin-left: 8px;
            white-space: nowrap;
        }

        .child-keywords {
            margin-left: 24px;
            margin-top: 8px;
        }

        footer {
            text-align: center;
            padding: 24px 0;
            margin-top: 48px;
            color: var(--text-secondary);
            font-size: 14px;
            border-top: 1px solid var(--border);
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{.Title}}</h1>
            <span class="generated-at">{{.GeneratedAt}}</span>
        </header>

        <div class="summary">
            <div class="summary-card">
                <div class="summary-value">{{.Report.TotalSuites}}</div>
                <div class="summary-label">Test Suites</div>
            </div>
            <div class="summary-card">
                <div class="summary-value">{{.Report.TotalTests}}</div>
                <div class="summary-label">Test Cases</div>
            </div>
            <div class="summary-card">
                <div class="summary-value">{{.Report.TotalKeywords}}</div>
                <div class="summary-label">Keywords</div>
            </div>
        </div>

        {{if .TopKeywords}}
        <h2 class="section-title">Keyword Usage</h2>
        <table class="keyword-table">
            <tr><th>Keyword</th><th>Calls</th></tr>
            {{range .TopKeywords}}
            <tr><td>{{.Name}}</td><td class="count">{{.Count}}</td></tr>
            {{end}}
        </table>
        {{end}}

        <h2 class="section-title">Test Suites</h2>
        {{range $si, $suite := .Report.Suites}}
        <div class="test-suite">
            <div class="suite-header {{statusClass $suite.Status}}" data-target="suite-{{$si}}" aria-expanded="false">
                <div>
                    <div class="suite-name">{{$suite.Name}}</div>
                    <div class="suite-meta">{{if $suite.Parent}}{{$suite.Parent}} &middot; {{end}}{{len $suite.Tests}} test case{{plural (len $suite.Tests)}}</div>
                </div>
                <div class="chevron">&rsaquo;</div>
            </div>
            <div id="suite-{{$si}}" class="suite-tests">
                {{if $suite.Setup}}
                <div class="test-case" data-target="suite-setup-{{$si}}" aria-expanded="false">
                    <div class="test-name"><strong>{{$suite.Setup.Name}}</strong> (Suite Setup)</div>
                    <div class="chevron">&rsaquo;</div>
                </div>
                <div id="suite-setup-{{$si}}" class="keywords">
                    {{template "step" $suite.Setup}}
                </div>
                {{end}}
                {{range $ti, $test := $suite.Tests}}
                <div class="test-case {{statusClass $test.Status}}" data-target="keywords-{{$si}}-{{$ti}}" aria-expanded="false">
                    <div class="test-name">{{$test.Name}}</div>
                    <span class="status-badge {{statusClass $test.Status}}">{{$test.Status}}</span>
                    <div class="chevron">&rsaquo;</div>
                </div>
                <div id="keywords-{{$si}}-{{$ti}}" class="keywords">
                    {{if $test.Setup}}{{template "step" $test.Setup}}{{end}}
                    {{range $test.Steps}}{{template "step" .}}{{end}}
                    {{if $test.Teardown}}{{template "step" $test.Teardown}}{{end}}
                </div>
                {{end}}
                {{if $suite.Teardown}}
                <div class="test-case" data-target="suite-teardown-{{$si}}" aria-expanded="false">
                    <div class="test-name"><strong>{{$suite.Teardown.Name}}</strong> (Suite Teardown)</div>
                    <div class="chevron">&rsaquo;</div>
                </div>
                <div id="suite-teardown-{{$si}}" class="keywords">
                    {{template "step" $suite.Teardown}}
                </div>
                {{end}}
            </div>
        </div>
        {{end}}

        <footer>
            <p>Generated by robot-report</p>
        </footer>
    </div>

    <script>
        document.addEventListener('DOMContentLoaded', function() {
            document.querySelectorAll('[data-target]').forEach(function(el) {
                el.addEventListener('click', function() {
                    var target = document.getElementById(this.getAttribute('data-target'));
                    if (!target) return;
                    var expanded = this.getAttribute('aria-expanded') === 'true';
                    this.setAttribute('aria-expanded', !expanded);
                    target.classList.toggle('visible');
                });
            });
        });
    </script>
</body>
</html>

{{define "step"}}
<div class="keyword {{.Kind}}">
    <div class="keyword-content">
        <span>{{.Name}}</span>
        <span>
            {{if ne .Kind "keyword"}}<span class="type-badge">{{.Kind}}</span>{{end}}
            {{if .Duration}}<span class="keyword-duration">{{.Duration}}</span>{{end}}
        </span>
    </div>
    {{if .Args}}<div class="keyword-args">{{range $i, $a := .Args}}{{if $i}} &middot; {{end}}{{$a}}{{end}}</div>{{end}}
    {{if .Children}}
    <div class="child-keywords">
        {{range .Children}}{{template "step" .}}{{end}}
    </div>
    {{end}}
</div>
{{end}}`
