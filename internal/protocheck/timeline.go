package protocheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimelineMention is one temporal expression extracted from section text,
// e.g. "7 days prior to Visit" -> {Value: 7, Unit: "day", Relation: "prior
// to", Referent: "Visit"}.
type TimelineMention struct {
	Value    int
	Unit     string
	Relation string
	Referent string
	Raw      string
}

var timelinePattern = regexp.MustCompile(`(?i)\b(\d+)\s+(day|week|month|year)s?\s+(prior to|after|from|to)\s+([\w-]+)`)

var unitDays = map[string]int{
	"day":   1,
	"week":  7,
	"month": 30,
	"year":  365,
}

// Days converts the mention to its day-equivalent using fixed multipliers
// (day=1, week=7, month=30, year=365).
func (m TimelineMention) Days() int {
	return m.Value * unitDays[m.Unit]
}

// ExtractTimeline parses all timeline mentions from text in order of
// appearance. It is isolated from the consistency check so both can be
// tested independently.
func ExtractTimeline(text string) []TimelineMention {
	var mentions []TimelineMention
	for _, match := range timelinePattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		mentions = append(mentions, TimelineMention{
			Value:    value,
			Unit:     strings.ToLower(match[2]),
			Relation: strings.ToLower(match[3]),
			Referent: match[4],
			Raw:      match[0],
		})
	}
	return mentions
}

// CheckTimeline flags adjacent timeline mentions whose day-equivalents are
// not strictly increasing in order of appearance. This deliberately assumes
// the text narrates timepoints chronologically; see TimelineNote.
func CheckTimeline(text string) []Issue {
	mentions := ExtractTimeline(text)
	var issues []Issue
	for i := 1; i < len(mentions); i++ {
		earlier, later := mentions[i-1], mentions[i]
		if earlier.Days() < later.Days() {
			continue
		}
		issues = append(issues, Issue{
			Kind:     KindInconsistency,
			Severity: SeverityMajor,
			Message: fmt.Sprintf("Timeline '%s' (%d days) appears before '%s' (%d days) but is not earlier",
				earlier.Raw, earlier.Days(), later.Raw, later.Days()),
			Suggestion: "Review the stated timepoints for chronological consistency",
		})
	}
	return issues
}

