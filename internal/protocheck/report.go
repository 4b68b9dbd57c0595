package protocheck

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuildResponse wraps a finished report in the envelope handed to downstream
// consumers. The markdown is derived from the report alone and is therefore
// deterministic; only the envelope carries per-run metadata.
func BuildResponse(report ProtocolReport, startedAt time.Time) ResponseEnvelope {
	return ResponseEnvelope{
		RunID:          uuid.NewString(),
		StudyType:      report.StudyType,
		Report:         report,
		ReportMarkdown: BuildMarkdown(report),
		StartedAt:      startedAt,
		CompletedAt:    time.Now().UTC(),
		Disclaimer:     Disclaimer,
	}
}

// BuildMarkdown renders the human-readable quality report.
func BuildMarkdown(report ProtocolReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Protocol Quality Report\n\n")
	fmt.Fprintf(&b, "- Study type: %s\n", displayStudyType(report.StudyType))
	fmt.Fprintf(&b, "- Overall quality score: %.1f / 100\n", report.OverallScore)
	fmt.Fprintf(&b, "- Guideline adherence: %s\n", adherenceLabel(report.GuidelineAdherence))
	if len(report.Guidelines) > 0 {
		fmt.Fprintf(&b, "- Applicable guidelines: %s\n", strings.Join(report.Guidelines, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n\n", Disclaimer)

	fmt.Fprintf(&b, "## Section Results\n\n")
	names := make([]string, 0, len(report.PerSection))
	for name := range report.PerSection {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		appendSection(&b, name, report.PerSection[name])
	}

	fmt.Fprintf(&b, "## Cross-Section Duplication\n\n")
	if len(report.DuplicationIssues) == 0 {
		fmt.Fprintf(&b, "No excessive overlap detected between sections.\n\n")
	}
	for _, issue := range report.DuplicationIssues {
		fmt.Fprintf(&b, "- [%s] %s\n  Suggestion: %s\n", issue.Severity, issue.Message, issue.Suggestion)
	}
	if len(report.DuplicationIssues) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Missing Required Elements\n\n")
	if len(report.MissingElements) == 0 {
		fmt.Fprintf(&b, "All required elements are present.\n\n")
	}
	for _, me := range report.MissingElements {
		fmt.Fprintf(&b, "- %s: %s\n", me.Section, strings.ReplaceAll(me.Element, "_", " "))
	}
	if len(report.MissingElements) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Notes\n\n")
	fmt.Fprintf(&b, "%s\n", TimelineNote)
	return b.String()
}

func appendSection(b *strings.Builder, name string, res SectionResult) {
	fmt.Fprintf(b, "### %s (score %.1f)\n\n", name, res.Score)
	if len(res.Issues) == 0 && len(res.Warnings) == 0 {
		fmt.Fprintf(b, "No findings.\n\n")
		return
	}
	for _, issue := range res.Issues {
		fmt.Fprintf(b, "- [%s] %s\n", issue.Severity, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(b, "  Suggestion: %s\n", issue.Suggestion)
		}
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(b, "- [warning] %s\n", warning.Message)
		if warning.Suggestion != "" {
			fmt.Fprintf(b, "  Suggestion: %s\n", warning.Suggestion)
		}
	}
	b.WriteString("\n")
}

func adherenceLabel(ok bool) string {
	if ok {
		return "compliant"
	}
	return "non-compliant"
}

func displayStudyType(st string) string {
	if st == "" {
		return "(unspecified)"
	}
	return st
}
