// Package render turns a finished validation response into a standalone HTML
// page for review. The markdown body comes through goldmark; everything else
// is a thin header around it.
package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/protocol-check/internal/protocheck"
)

const styleCSS = `body{font-family:Georgia,serif;background:#f9f7f3;margin:0;padding:1rem;}
.report-wrap{max-width:900px;margin:0 auto;background:#fff;border:1px solid #d6d3d1;padding:1.25rem 1.5rem;}
.report-meta{color:#44403c;font-size:0.9rem;margin-bottom:0.75rem;}
.report-meta strong{color:#1c1917;}
.report-badge{display:inline-block;padding:0.2rem 0.6rem;border-radius:3px;font-size:0.8rem;font-weight:700;}
.report-badge.pass{background:#dcfce7;color:#14532d;border:1px solid #86efac;}
.report-badge.fail{background:#fee2e2;color:#7f1d1d;border:1px solid #fca5a5;}
.report-html h1{font-size:1.5rem;border-bottom:2px solid #d6d3d1;padding-bottom:0.4rem;}
.report-html h2{font-size:1.15rem;margin-top:1.5rem;}
.report-html h3{font-size:1rem;}
.report-html table{width:100%;border-collapse:collapse;font-size:0.85rem;}
.report-html th,.report-html td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}`

// HTML renders a validation response as a complete HTML document.
func HTML(env protocheck.ResponseEnvelope) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(env.ReportMarkdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>Protocol Quality Report</title>" +
		"<style>" + styleCSS + "</style></head><body>" +
		"<div class='report-wrap'>" +
		"<div class='report-meta'>" + buildMetaHTML(env) + "</div>" +
		badgeHTML(env.Report.GuidelineAdherence) +
		"<div class='report-html'>" + content.String() + "</div>" +
		"</div></body></html>", nil
}

func buildMetaHTML(env protocheck.ResponseEnvelope) string {
	var out strings.Builder
	if env.RunID != "" {
		out.WriteString("<div><strong>Run:</strong> " + html.EscapeString(env.RunID) + "</div>")
	}
	if st := strings.TrimSpace(env.StudyType); st != "" {
		out.WriteString("<div><strong>Study type:</strong> " + html.EscapeString(st) + "</div>")
	}
	out.WriteString(fmt.Sprintf("<div><strong>Overall score:</strong> %.1f / 100</div>", env.Report.OverallScore))
	if !env.CompletedAt.IsZero() {
		out.WriteString("<div><strong>Completed:</strong> " + html.EscapeString(env.CompletedAt.Format(time.RFC3339)) + "</div>")
	}
	return out.String()
}

func badgeHTML(adherent bool) string {
	if adherent {
		return "<span class='report-badge pass'>Guideline adherent</span>"
	}
	return "<span class='report-badge fail'>Guideline deviations found</span>"
}
