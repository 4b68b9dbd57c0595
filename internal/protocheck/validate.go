package protocheck

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/joelkehle/protocol-check/internal/protocheck")

// ValidateProtocol runs the full quality screen over a protocol document: a
// section validation and timeline check per section, plus one duplication
// pass over the whole document. Content problems never surface as errors;
// the only error is a structurally invalid invocation (nil section map).
// Given identical inputs and registry state the report is byte-identical
// across runs.
func ValidateProtocol(ctx context.Context, reg *Registry, sections map[string]string, studyType string) (ProtocolReport, error) {
	if sections == nil {
		return ProtocolReport{}, errors.New("sections map is required")
	}

	st := reg.NormalizeStudyType(studyType)
	_, span := tracer.Start(ctx, "protocheck.validate_protocol")
	span.SetAttributes(
		attribute.String("protocol.study_type", st),
		attribute.Int("protocol.sections", len(sections)),
	)
	defer span.End()

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	// Sections are independent; validate them concurrently. Duplication only
	// needs the full section map, so it runs alongside.
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		perSection = make(map[string]SectionResult, len(names))
		dupIssues  []Issue
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		issues := DetectDuplication(sections)
		mu.Lock()
		dupIssues = issues
		mu.Unlock()
	}()
	for _, name := range names {
		wg.Add(1)
		go func(name, text string) {
			defer wg.Done()
			res := ValidateSection(reg, name, text, st)
			res = mergeTimeline(res, CheckTimeline(text))
			mu.Lock()
			perSection[name] = res
			mu.Unlock()
		}(name, sections[name])
	}
	wg.Wait()

	report := ProtocolReport{
		StudyType:         st,
		PerSection:        perSection,
		DuplicationIssues: dupIssues,
	}

	for _, name := range names {
		rule := reg.RulesFor(name)
		for _, element := range missingElements(rule.RequiredElements, sections[name]) {
			report.MissingElements = append(report.MissingElements, MissingElement{Section: name, Element: element})
		}
		for _, element := range missingElements(rule.StudyTypeRequiredElements[st], sections[name]) {
			report.MissingElements = append(report.MissingElements, MissingElement{Section: name, Element: element})
		}
	}

	report.Guidelines = reg.GuidelinesFor(st)
	report.OverallScore = overallScore(names, perSection)
	report.GuidelineAdherence = !report.HasCritical() && len(report.MissingElements) == 0

	span.SetAttributes(
		attribute.Float64("protocol.overall_score", report.OverallScore),
		attribute.Bool("protocol.guideline_adherence", report.GuidelineAdherence),
	)
	return report, nil
}

// mergeTimeline appends timeline issues to a section result and recomputes
// everything derived from the issue list. Timeline issues count toward the
// section score like any other issue.
func mergeTimeline(res SectionResult, timeline []Issue) SectionResult {
	if len(timeline) == 0 {
		return res
	}
	return buildSectionResult(append(res.Issues, timeline...), res.Warnings)
}

func overallScore(names []string, perSection map[string]SectionResult) float64 {
	if len(names) == 0 {
		return 100
	}
	total := 0.0
	for _, name := range names {
		total += perSection[name].Score
	}
	return total / float64(len(names))
}
