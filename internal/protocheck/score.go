package protocheck

// Score computes the deterministic quality score for a list of issues.
// Start at 100; subtract 20 per CRITICAL, 10 per MAJOR, 5 per MINOR.
// MISSING_SUBSECTION issues are warnings and never counted. After the
// deductions: +5 if no CRITICAL issue is present, +10 if nothing was
// counted at all. The result is clamped to [0,100].
func Score(issues []Issue) float64 {
	score := 100.0
	counted := 0
	critical := false
	for _, issue := range issues {
		if issue.Kind == KindMissingSubsection {
			continue
		}
		counted++
		switch issue.Severity {
		case SeverityCritical:
			score -= 20
			critical = true
		case SeverityMajor:
			score -= 10
		case SeverityMinor:
			score -= 5
		}
	}
	if !critical {
		score += 5
	}
	if counted == 0 {
		score += 10
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
