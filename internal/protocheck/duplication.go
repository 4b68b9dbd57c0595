package protocheck

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	// A synopsis legitimately repeats other sections, so pairs involving it
	// get a higher duplication threshold and a softer severity.
	synopsisSection            = "synopsis"
	duplicationThreshold       = 0.6
	duplicationThresholdSynops = 0.8
)

// DetectDuplication computes pairwise similarity across all sections and
// flags pairs whose overlap exceeds the applicable threshold. Pairs are
// visited exactly once, ordered by sorted section name, so the result is
// deterministic for identical input.
func DetectDuplication(sections map[string]string) []Issue {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make(map[string]map[string]struct{}, len(names))
	for _, name := range names {
		sets[name] = tokenSet(sections[name])
	}

	var issues []Issue
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			sim := similarity(sets[a], sets[b])

			synopsisPair := strings.EqualFold(a, synopsisSection) || strings.EqualFold(b, synopsisSection)
			threshold := duplicationThreshold
			severity := SeverityMajor
			suggestion := "Consolidate the duplicated content or cross-reference one section from the other"
			if synopsisPair {
				threshold = duplicationThresholdSynops
				severity = SeverityMinor
				suggestion = "Review if the duplication with the synopsis is justified"
			}
			if sim <= threshold {
				continue
			}
			issues = append(issues, Issue{
				Kind:       KindInconsistency,
				Severity:   severity,
				Message:    fmt.Sprintf("Sections '%s' and '%s' overlap substantially (similarity %.2f)", a, b, sim),
				Suggestion: suggestion,
			})
		}
	}
	return issues
}

// similarity is the overlap of two token sets normalized by the smaller
// set: |a ∩ b| / min(|a|, |b|), or 0 when either set is empty. It is
// symmetric, and identical non-empty texts always score 1.0.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for token := range small {
		if _, ok := large[token]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
