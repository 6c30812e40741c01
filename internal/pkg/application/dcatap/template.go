package dcatap

import (
	_ "embed"
	"fmt"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

//go:embed dcat-ap-pt.yaml
var templateSource []byte

type EnumerationValue struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type TypeDeclaration struct {
	Label             string             `yaml:"label"`
	EnumerationValues []EnumerationValue `yaml:"enumerationValues,omitempty"`
}

func (t TypeDeclaration) IsEnumeration() bool {
	return len(t.EnumerationValues) > 0
}

// ModelTemplate describes the declared types of a DCAT-AP-PT data model.
type ModelTemplate struct {
	Label       string            `yaml:"label"`
	Description string            `yaml:"description"`
	DataTypes   []TypeDeclaration `yaml:"dataTypes"`
}

func Template() (ModelTemplate, error) {
	return ParseTemplate(templateSource)
}

func ParseTemplate(source []byte) (ModelTemplate, error) {
	t := ModelTemplate{}

	if err := yaml.Unmarshal(source, &t); err != nil {
		return t, fmt.Errorf("failed to parse model template: %w", err)
	}

	seen := map[string]bool{}
	for _, dt := range t.DataTypes {
		if dt.Label == "" {
			return t, fmt.Errorf("model template declares a type without a label")
		}
		if seen[dt.Label] {
			return t, fmt.Errorf("model template declares %q twice", dt.Label)
		}
		seen[dt.Label] = true
	}

	return t, nil
}

// RequiredTypeNames lists, sorted, every type name referenced by a data element.
func RequiredTypeNames() []string {
	set := map[string]struct{}{}
	for _, fs := range fields {
		for _, f := range fs {
			set[f.TypeName] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}

// MissingTypes reports, sorted, the required type names not present in declared.
func MissingTypes(declared func(name string) bool) []string {
	missing := []string{}
	for _, n := range RequiredTypeNames() {
		if !declared(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
