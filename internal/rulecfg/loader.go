// Package rulecfg loads validation rule tables from YAML files. A rules file
// fully replaces the built-in table rather than patching it; sites that want
// the defaults simply omit the file.
package rulecfg

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joelkehle/protocol-check/internal/protocheck"
)

type fileSchema struct {
	Sections map[string]struct {
		RequiredElements          []string            `yaml:"required_elements"`
		ForbiddenTerms            []string            `yaml:"forbidden_terms"`
		MinLength                 int                 `yaml:"min_length"`
		StudyTypeRequiredElements map[string][]string `yaml:"study_type_required_elements"`
		RequiredSubsections       map[string][]string `yaml:"required_subsections"`
	} `yaml:"sections"`
	StudyTypeRules map[string]struct {
		ForbiddenTerms []string `yaml:"forbidden_terms"`
		Message        string   `yaml:"message"`
	} `yaml:"study_type_rules"`
	Guidelines map[string][]string `yaml:"guidelines"`
	Aliases    map[string]string   `yaml:"aliases"`
}

// Load reads a rules file and builds the registry for it. An empty path
// selects the built-in default table.
func Load(path string) (*protocheck.Registry, error) {
	if path == "" {
		return protocheck.DefaultRegistry(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	reg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return reg, nil
}

// Parse builds a registry from raw YAML. Section and study-type keys are
// lowercased so lookups behave the same as with the built-in table.
func Parse(raw []byte) (*protocheck.Registry, error) {
	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(file.Sections) == 0 {
		return nil, fmt.Errorf("rules define no sections")
	}

	reg := &protocheck.Registry{
		Sections:       make(map[string]protocheck.Rule, len(file.Sections)),
		StudyTypeRules: make(map[string]protocheck.StudyTypeRule, len(file.StudyTypeRules)),
		Guidelines:     make(map[string][]string, len(file.Guidelines)),
		Aliases:        make(map[string]string, len(file.Aliases)),
	}
	for name, s := range file.Sections {
		if s.MinLength < 0 {
			return nil, fmt.Errorf("section %s: negative min_length", name)
		}
		reg.Sections[lower(name)] = protocheck.Rule{
			RequiredElements:          s.RequiredElements,
			ForbiddenTerms:            s.ForbiddenTerms,
			MinLength:                 s.MinLength,
			StudyTypeRequiredElements: lowerKeys(s.StudyTypeRequiredElements),
			RequiredSubsections:       lowerKeys(s.RequiredSubsections),
		}
	}
	for st, r := range file.StudyTypeRules {
		reg.StudyTypeRules[lower(st)] = protocheck.StudyTypeRule{
			ForbiddenTerms: r.ForbiddenTerms,
			Message:        r.Message,
		}
	}
	for st, gs := range file.Guidelines {
		reg.Guidelines[lower(st)] = gs
	}
	for alias, canonical := range file.Aliases {
		reg.Aliases[lower(alias)] = lower(canonical)
	}
	return reg, nil
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerKeys(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[lower(k)] = v
	}
	return out
}
