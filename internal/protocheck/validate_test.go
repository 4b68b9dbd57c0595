package protocheck

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateProtocolNilSections(t *testing.T) {
	_, err := ValidateProtocol(context.Background(), DefaultRegistry(), nil, "phase2")
	if err == nil {
		t.Fatal("expected an invocation error for a nil section map")
	}
}

func TestValidateProtocolEmptyDocument(t *testing.T) {
	report, err := ValidateProtocol(context.Background(), DefaultRegistry(), map[string]string{}, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	if len(report.PerSection) != 0 || len(report.DuplicationIssues) != 0 || len(report.MissingElements) != 0 {
		t.Fatalf("empty document should produce an empty report: %+v", report)
	}
	if !report.GuidelineAdherence {
		t.Fatal("empty document should be adherent")
	}
	if report.OverallScore != 100 {
		t.Fatalf("overall score = %v, want 100", report.OverallScore)
	}
}

func TestValidateProtocolPlaceholderObjectives(t *testing.T) {
	report, err := ValidateProtocol(context.Background(), testRegistry(), map[string]string{"objectives": "tbd"}, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	res, ok := report.PerSection["objectives"]
	if !ok {
		t.Fatal("missing objectives result")
	}
	if res.Score != 55 {
		t.Fatalf("score = %v, want 55", res.Score)
	}
	want := []MissingElement{
		{Section: "objectives", Element: "primary_objective"},
		{Section: "objectives", Element: "secondary_objectives"},
	}
	if len(report.MissingElements) != len(want) {
		t.Fatalf("missing elements = %v", report.MissingElements)
	}
	for i, me := range want {
		if report.MissingElements[i] != me {
			t.Fatalf("missing element %d = %+v, want %+v", i, report.MissingElements[i], me)
		}
	}
	if report.GuidelineAdherence {
		t.Fatal("a CRITICAL issue and missing elements should break adherence")
	}
}

func TestValidateProtocolEmptyStudyType(t *testing.T) {
	report, err := ValidateProtocol(context.Background(), testRegistry(), map[string]string{"objectives": "tbd"}, "")
	if err != nil {
		t.Fatalf("empty study type is a valid input: %v", err)
	}
	res := report.PerSection["objectives"]
	if got := len(res.Issues); got != 4 {
		t.Fatalf("issues = %d, want 4 (2 missing, 1 forbidden, 1 length)", got)
	}
	for _, issue := range res.Issues {
		if strings.Contains(issue.Message, "-specific") {
			t.Fatalf("empty study type must not produce study-specific issues: %s", issue.Message)
		}
	}
	if res.Score != 55 {
		t.Fatalf("score = %v, want 55", res.Score)
	}
	want := []MissingElement{
		{Section: "objectives", Element: "primary_objective"},
		{Section: "objectives", Element: "secondary_objectives"},
	}
	if len(report.MissingElements) != len(want) {
		t.Fatalf("missing elements = %v, want exactly the base set once", report.MissingElements)
	}
	for i, me := range want {
		if report.MissingElements[i] != me {
			t.Fatalf("missing element %d = %+v, want %+v", i, report.MissingElements[i], me)
		}
	}
}

func TestValidateProtocolTimelineMergedIntoScore(t *testing.T) {
	text := "Labs drawn 7 days prior to Visit 1 and consent 3 days prior to Visit 1."
	report, err := ValidateProtocol(context.Background(), testRegistry(), map[string]string{"schedule": text}, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	res := report.PerSection["schedule"]
	if len(res.Issues) != 1 {
		t.Fatalf("issues = %d, want 1 timeline issue", len(res.Issues))
	}
	if res.Issues[0].Kind != KindInconsistency {
		t.Fatalf("kind = %s, want %s", res.Issues[0].Kind, KindInconsistency)
	}
	// 100 - 10 (MAJOR) + 5 (no critical) = 95.
	if res.Score != 95 {
		t.Fatalf("score = %v, want 95", res.Score)
	}
}

func TestValidateProtocolDuplicationNotInSectionScores(t *testing.T) {
	text := "identical wording repeated across both protocol sections verbatim"
	report, err := ValidateProtocol(context.Background(), testRegistry(), map[string]string{
		"rationale": text,
		"safety":    text,
	}, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	if len(report.DuplicationIssues) != 1 {
		t.Fatalf("duplication issues = %d, want 1", len(report.DuplicationIssues))
	}
	for name, res := range report.PerSection {
		if res.Score != 100 {
			t.Fatalf("section %s score = %v, want 100 (duplication must not count)", name, res.Score)
		}
	}
	// Duplication is MAJOR here, not CRITICAL, and nothing is missing.
	if !report.GuidelineAdherence {
		t.Fatal("expected adherence despite a MAJOR duplication issue")
	}
}

func TestHasCriticalSeesDuplicationIssues(t *testing.T) {
	report := ProtocolReport{
		DuplicationIssues: []Issue{{Kind: KindInconsistency, Severity: SeverityCritical}},
	}
	if !report.HasCritical() {
		t.Fatal("HasCritical should see document-level issues")
	}
}

func TestValidateProtocolUnknownStudyType(t *testing.T) {
	report, err := ValidateProtocol(context.Background(), DefaultRegistry(), map[string]string{
		"study_design": "design_type duration population",
	}, "adaptive_platform")
	if err != nil {
		t.Fatalf("unknown study type must not error: %v", err)
	}
	res := report.PerSection["study_design"]
	for _, issue := range res.Issues {
		if strings.Contains(issue.Message, "-specific") {
			t.Fatalf("unexpected study-specific issue: %s", issue.Message)
		}
	}
	if report.Guidelines != nil {
		t.Fatalf("guidelines = %v, want nil", report.Guidelines)
	}
}

func TestValidateProtocolGuidelines(t *testing.T) {
	report, err := ValidateProtocol(context.Background(), DefaultRegistry(), map[string]string{}, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	if len(report.Guidelines) != 2 || report.Guidelines[0] != "ICH E6" {
		t.Fatalf("guidelines = %v", report.Guidelines)
	}
}

func TestValidateProtocolIdempotent(t *testing.T) {
	sections := map[string]string{
		"objectives":   "tbd",
		"background":   "rationale current_treatment text about 3 days prior to launch and 1 day prior to launch",
		"synopsis":     "shared shared shared tokens tokens everywhere",
		"rationale":    "shared shared shared tokens tokens everywhere",
		"study_design": "design_type duration population endpoints sample_size",
	}
	reg := DefaultRegistry()
	first, err := ValidateProtocol(context.Background(), reg, sections, "phase2")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ValidateProtocol(context.Background(), reg, sections, "phase2")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		againJSON, err := json.Marshal(again)
		if err != nil {
			t.Fatalf("run %d marshal: %v", i, err)
		}
		if !bytes.Equal(firstJSON, againJSON) {
			t.Fatalf("run %d produced a different report:\n%s\n%s", i, firstJSON, againJSON)
		}
	}
}

func TestValidateProtocolScoresInRange(t *testing.T) {
	sections := map[string]string{
		"objectives":   "tbd placeholder to be determined",
		"study_design": "",
		"background":   "",
		"population":   "",
		"safety":       "",
	}
	report, err := ValidateProtocol(context.Background(), DefaultRegistry(), sections, "phase3")
	if err != nil {
		t.Fatalf("ValidateProtocol: %v", err)
	}
	for name, res := range report.PerSection {
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("section %s score %v out of range", name, res.Score)
		}
	}
	if report.OverallScore < 0 || report.OverallScore > 100 {
		t.Fatalf("overall score %v out of range", report.OverallScore)
	}
}
