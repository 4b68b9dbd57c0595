package protocheck

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidateSection evaluates one section's text against the registry for a
// given study type. It is pure and deterministic; unknown section names and
// study types produce zero issues by design. Timeline findings are merged in
// separately by ValidateProtocol.
func ValidateSection(reg *Registry, section, text, studyType string) SectionResult {
	rule := reg.RulesFor(section)
	st := reg.NormalizeStudyType(studyType)

	var issues []Issue

	for _, element := range missingElements(rule.RequiredElements, text) {
		issues = append(issues, Issue{
			Kind:       KindMissingElement,
			Severity:   SeverityMajor,
			Message:    fmt.Sprintf("Missing required element '%s' in %s", element, section),
			Suggestion: fmt.Sprintf("Add %s to the %s section", element, section),
		})
	}
	for _, element := range missingElements(rule.StudyTypeRequiredElements[st], text) {
		issues = append(issues, Issue{
			Kind:       KindMissingElement,
			Severity:   SeverityMajor,
			Message:    fmt.Sprintf("Missing %s-specific element '%s' in %s", st, element, section),
			Suggestion: fmt.Sprintf("Add %s as required for %s studies", element, st),
		})
	}

	lower := strings.ToLower(text)
	for _, term := range rule.ForbiddenTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			issues = append(issues, Issue{
				Kind:       KindForbiddenTerm,
				Severity:   SeverityCritical,
				Message:    fmt.Sprintf("Forbidden term '%s' found in %s", term, section),
				Suggestion: fmt.Sprintf("Replace '%s' with final protocol content", term),
			})
		}
	}
	if stRule, ok := reg.ForbiddenForStudyType(st); ok {
		for _, term := range stRule.ForbiddenTerms {
			if strings.Contains(lower, strings.ToLower(term)) {
				issues = append(issues, Issue{
					Kind:       KindForbiddenTerm,
					Severity:   SeverityCritical,
					Message:    fmt.Sprintf("%s: '%s'", stRule.Message, term),
					Suggestion: fmt.Sprintf("Remove or replace content about %s as it is not applicable for %s studies", term, st),
				})
			}
		}
	}

	if length := utf8.RuneCountInString(text); length < rule.MinLength {
		issues = append(issues, Issue{
			Kind:       KindInsufficientLength,
			Severity:   SeverityMinor,
			Message:    fmt.Sprintf("Section %s is too short (%d characters, minimum %d)", section, length, rule.MinLength),
			Suggestion: fmt.Sprintf("Expand the %s section to at least %d characters", section, rule.MinLength),
		})
	}

	var warnings []Issue
	for _, sub := range rule.RequiredSubsections[st] {
		if !hasHeading(text, sub) {
			warnings = append(warnings, Issue{
				Kind:       KindMissingSubsection,
				Severity:   SeverityMinor,
				Message:    fmt.Sprintf("Missing subsection '%s' in %s", subsectionTitle(sub), section),
				Suggestion: fmt.Sprintf("Add a '%s' subsection to %s", subsectionTitle(sub), section),
			})
		}
	}

	return buildSectionResult(issues, warnings)
}

// missingElements returns the elements not present in text as
// case-insensitive substrings. Callers pass either a section's base element
// set or its study-type-specific set; an unknown or empty study type selects
// no specific set at all. Both ValidateSection and the aggregator's
// missing-element rollup use it, so the two views can never disagree.
func missingElements(elements []string, text string) []string {
	lower := strings.ToLower(text)
	var missing []string
	for _, element := range elements {
		if !strings.Contains(lower, strings.ToLower(element)) {
			missing = append(missing, element)
		}
	}
	return missing
}

// hasHeading reports whether text contains the subsection name as a
// heading-like marker: at the start of a line, optionally preceded by
// markdown heading marks or decimal numbering. Underscores in the configured
// name match spaces in the text and vice versa.
func hasHeading(text, name string) bool {
	title := regexp.QuoteMeta(subsectionTitle(name))
	title = strings.ReplaceAll(title, " ", `[ _]`)
	re := regexp.MustCompile(`(?mi)^\s*(?:#{1,6}\s*|\d+(?:\.\d+)*\.?\s+)?` + title + `\b`)
	return re.MatchString(text)
}

func subsectionTitle(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func buildSectionResult(issues, warnings []Issue) SectionResult {
	res := SectionResult{
		Issues:   issues,
		Warnings: warnings,
		Score:    Score(issues),
		SeverityCounts: map[Severity]int{
			SeverityCritical: 0,
			SeverityMajor:    0,
			SeverityMinor:    0,
		},
	}
	for _, issue := range issues {
		res.SeverityCounts[issue.Severity]++
	}
	seen := map[string]bool{}
	for _, issue := range append(append([]Issue{}, issues...), warnings...) {
		if issue.Suggestion == "" || seen[issue.Suggestion] {
			continue
		}
		seen[issue.Suggestion] = true
		res.Suggestions = append(res.Suggestions, issue.Suggestion)
	}
	return res
}
