package protocheck

import "strings"

// Rule describes the completeness requirements for one section. The zero
// value is the valid "no requirements" rule returned for unknown sections.
type Rule struct {
	RequiredElements          []string
	ForbiddenTerms            []string
	MinLength                 int
	StudyTypeRequiredElements map[string][]string
	RequiredSubsections       map[string][]string
}

// StudyTypeRule lists content that must not appear anywhere in a protocol of
// a given study type, e.g. interim-analysis language in a secondary RWE
// protocol.
type StudyTypeRule struct {
	ForbiddenTerms []string
	Message        string
}

// Registry is the static rule table for a validation run. It is loaded once
// before any validation call and never mutated during a run; validation
// entry points receive it explicitly rather than reading ambient state.
type Registry struct {
	Sections       map[string]Rule
	StudyTypeRules map[string]StudyTypeRule
	Guidelines     map[string][]string
	Aliases        map[string]string
}

// RulesFor returns the rule configured for a section. An unknown section
// name returns the empty Rule; that is a designed outcome, not an error.
func (r *Registry) RulesFor(section string) Rule {
	if r == nil {
		return Rule{}
	}
	return r.Sections[strings.ToLower(strings.TrimSpace(section))]
}

// NormalizeStudyType lowercases a study type and resolves registry aliases
// (e.g. "slr" -> "systematic_review"). Unknown study types pass through
// unchanged; they are valid inputs that simply select no specific rules.
func (r *Registry) NormalizeStudyType(studyType string) string {
	st := strings.ToLower(strings.TrimSpace(studyType))
	if r == nil {
		return st
	}
	if canonical, ok := r.Aliases[st]; ok {
		return canonical
	}
	return st
}

// GuidelinesFor returns the reporting guidelines associated with a study
// type, or nil for study types the registry does not know.
func (r *Registry) GuidelinesFor(studyType string) []string {
	if r == nil {
		return nil
	}
	return r.Guidelines[r.NormalizeStudyType(studyType)]
}

// ForbiddenForStudyType returns the study-type inappropriate-content rule,
// if any.
func (r *Registry) ForbiddenForStudyType(studyType string) (StudyTypeRule, bool) {
	if r == nil {
		return StudyTypeRule{}, false
	}
	rule, ok := r.StudyTypeRules[r.NormalizeStudyType(studyType)]
	return rule, ok
}

// DefaultRegistry returns the built-in rule table used when no rules file is
// supplied. Section and study-type keys are lowercase.
func DefaultRegistry() *Registry {
	return &Registry{
		Sections: map[string]Rule{
			"objectives": {
				RequiredElements: []string{"primary_objective", "secondary_objectives"},
				ForbiddenTerms:   []string{"tbd", "to be determined", "placeholder"},
				MinLength:        200,
				RequiredSubsections: map[string][]string{
					"phase1": {"primary_objectives", "secondary_objectives", "primary_endpoints", "secondary_endpoints"},
					"phase2": {"primary_objectives", "secondary_objectives", "primary_endpoints", "secondary_endpoints"},
					"phase3": {"primary_objectives", "secondary_objectives", "primary_endpoints", "secondary_endpoints"},
				},
			},
			"study_design": {
				RequiredElements: []string{"design_type", "duration", "population"},
				StudyTypeRequiredElements: map[string][]string{
					"phase1": {"dose_escalation", "safety_monitoring"},
					"phase2": {"endpoints", "sample_size"},
					"phase3": {"randomization", "blinding", "interim_analysis"},
					"phase4": {"real_world_setting", "comparator"},
				},
				RequiredSubsections: map[string][]string{
					"phase1": {"overall_design", "dose_escalation_strategy", "study_duration"},
					"phase2": {"overall_design", "treatment_groups", "randomization", "blinding"},
					"phase3": {"overall_design", "treatment_groups", "randomization", "blinding"},
				},
			},
			"background": {
				RequiredElements: []string{"rationale", "current_treatment", "unmet_need"},
				MinLength:        200,
			},
			"population": {
				RequiredElements: []string{"inclusion_criteria", "exclusion_criteria", "sample_size"},
			},
			"procedures": {
				RequiredElements: []string{"study_visits", "assessments", "follow_up"},
			},
			"statistical_analysis": {
				RequiredElements: []string{"analysis_population", "statistical_methods", "sample_size_calculation"},
			},
			"safety": {
				RequiredElements: []string{"safety_parameters", "adverse_events", "monitoring"},
			},
			"endpoints": {
				RequiredElements: []string{"primary_endpoints", "secondary_endpoints", "safety_endpoints"},
			},
			"search_strategy": {
				RequiredElements: []string{"databases", "search_terms", "time_period"},
			},
			"data_source": {
				RequiredElements: []string{"database_name", "time_period", "data_elements"},
			},
		},
		StudyTypeRules: map[string]StudyTypeRule{
			"secondary_rwe": {
				ForbiddenTerms: []string{"unblinding", "dsmb", "interim analysis", "stopping rules"},
				Message:        "Contains elements not applicable to secondary RWE studies",
			},
			"systematic_review": {
				ForbiddenTerms: []string{"randomization", "blinding", "dose escalation"},
				Message:        "Contains elements not applicable to systematic reviews",
			},
			"observational": {
				ForbiddenTerms: []string{"randomization", "blinding", "placebo"},
				Message:        "Contains elements not applicable to observational studies",
			},
		},
		Guidelines: map[string][]string{
			"phase1":            {"ICH E6", "ICH E9"},
			"phase2":            {"ICH E6", "CONSORT"},
			"phase3":            {"ICH E6", "ICH E9", "CONSORT"},
			"phase4":            {"ICH E6", "GPP"},
			"systematic_review": {"PRISMA"},
			"secondary_rwe":     {"GPP", "STROBE"},
		},
		Aliases: map[string]string{
			"slr":  "systematic_review",
			"rwe":  "secondary_rwe",
			"meta": "meta_analysis",
		},
	}
}
