package protocheck

import "time"

const Disclaimer = "This is an automated quality screen of generated protocol content. " +
	"It does not replace medical writing review, biostatistical review, or regulatory review. " +
	"All findings should be confirmed by a qualified protocol author."

// TimelineNote is included in every rendered report because the timeline
// check assumes text narrates timepoints in chronological order; text that
// legitimately lists timepoints out of order will produce false positives.
const TimelineNote = "Timeline findings are based on the order timepoints appear in the text " +
	"and may flag sections that intentionally describe timepoints out of chronological order."

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
)

type IssueKind string

const (
	KindMissingElement     IssueKind = "MISSING_ELEMENT"
	KindForbiddenTerm      IssueKind = "FORBIDDEN_TERM"
	KindInsufficientLength IssueKind = "INSUFFICIENT_LENGTH"
	KindInconsistency      IssueKind = "INCONSISTENCY"
	KindMissingSubsection  IssueKind = "MISSING_SUBSECTION"
)

// Issue is a single finding against a section or document. Issues are
// immutable once created and carry no reference back to their source
// section; callers associate issues with sections by context.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
}

// SectionResult holds everything found in one section. It is owned by the
// validation call that created it and never mutated afterwards.
type SectionResult struct {
	Issues         []Issue          `json:"issues"`
	Warnings       []Issue          `json:"warnings"`
	Suggestions    []string         `json:"suggestions"`
	Score          float64          `json:"score"`
	SeverityCounts map[Severity]int `json:"severity_counts"`
}

type MissingElement struct {
	Section string `json:"section"`
	Element string `json:"element"`
}

// ProtocolReport is the consolidated result of one validation run. Every
// field is deterministic for identical inputs and registry state; run
// metadata that cannot be deterministic lives on ResponseEnvelope instead.
type ProtocolReport struct {
	StudyType          string                   `json:"study_type"`
	PerSection         map[string]SectionResult `json:"per_section"`
	DuplicationIssues  []Issue                  `json:"duplication_issues"`
	MissingElements    []MissingElement         `json:"missing_elements"`
	Guidelines         []string                 `json:"guidelines"`
	OverallScore       float64                  `json:"overall_score"`
	GuidelineAdherence bool                     `json:"guideline_adherence"`
}

// HasCritical reports whether any CRITICAL issue exists anywhere in the
// report, including document-level duplication issues.
func (r ProtocolReport) HasCritical() bool {
	for _, res := range r.PerSection {
		for _, issue := range res.Issues {
			if issue.Severity == SeverityCritical {
				return true
			}
		}
	}
	for _, issue := range r.DuplicationIssues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ResponseEnvelope wraps a ProtocolReport for downstream consumers (review
// UI, export/formatting layer) together with per-run metadata.
type ResponseEnvelope struct {
	RunID          string         `json:"run_id"`
	StudyType      string         `json:"study_type"`
	Report         ProtocolReport `json:"report"`
	ReportMarkdown string         `json:"report_markdown"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
	Disclaimer     string         `json:"disclaimer"`
}
