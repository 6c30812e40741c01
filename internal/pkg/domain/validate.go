package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingTitle = errors.New("title is required")
var ErrDuplicateLabel = errors.New("duplicate label")

// Validate checks the invariants that the remote labels depend on. Two siblings that
// would be stored under the same label are rejected instead of silently merged.
func (c Catalogue) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("catalogue: %w", ErrMissingTitle)
	}

	datasets := map[string]int{}
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("dataset %d: %w", i, ErrMissingTitle)
		}

		if j, dup := datasets[d.Title]; dup {
			return fmt.Errorf("datasets %d and %d are both titled %q: %w", j, i, d.Title, ErrDuplicateLabel)
		}
		datasets[d.Title] = i

		if err := d.Validate(); err != nil {
			return fmt.Errorf("dataset %q: %w", d.Title, err)
		}
	}

	services := map[string]int{}
	for i, s := range c.DataServices {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("data service %d: %w", i, ErrMissingTitle)
		}

		if j, dup := services[s.Title]; dup {
			return fmt.Errorf("data services %d and %d are both titled %q: %w", j, i, s.Title, ErrDuplicateLabel)
		}
		services[s.Title] = i
	}

	return nil
}

func (d Dataset) Validate() error {
	formats := map[string]int{}
	for i, dist := range d.Distributions {
		if j, dup := formats[dist.Format]; dup {
			return fmt.Errorf("distributions %d and %d share the format %q: %w", j, i, dist.Format, ErrDuplicateLabel)
		}
		formats[dist.Format] = i
	}

	return ValidateSchema(d.Schema)
}

// ValidateSchema rejects two schema rows with the same label. Rows without a label
// are never stored and are not compared.
func ValidateSchema(fields []SchemaField) error {
	labels := map[string]int{}
	for i, f := range fields {
		if f.Label == "" {
			continue
		}

		if j, dup := labels[f.Label]; dup {
			return fmt.Errorf("schema fields %d and %d are both labelled %q: %w", j, i, f.Label, ErrDuplicateLabel)
		}
		labels[f.Label] = i
	}

	return nil
}

func (d Directory) Validate() error {
	if err := validateAgents(d.Agents); err != nil {
		return err
	}

	legal := map[string]int{}
	for i, lr := range d.LegalResources {
		if strings.TrimSpace(lr.Jurisdiction) == "" {
			return fmt.Errorf("legal resource %d has no jurisdiction: %w", i, ErrMissingTitle)
		}

		key := lr.Jurisdiction + "." + lr.LegalAct
		if j, dup := legal[key]; dup {
			return fmt.Errorf("legal resources %d and %d are both %q: %w", j, i, key, ErrDuplicateLabel)
		}
		legal[key] = i

		if err := validateAgents(lr.Agents); err != nil {
			return fmt.Errorf("legal resource %q: %w", key, err)
		}
	}

	return nil
}

func validateAgents(agents []Agent) error {
	names := map[string]int{}
	for i, a := range agents {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("agent %d has no name: %w", i, ErrMissingTitle)
		}

		if j, dup := names[a.Name]; dup {
			return fmt.Errorf("agents %d and %d are both named %q: %w", j, i, a.Name, ErrDuplicateLabel)
		}
		names[a.Name] = i
	}

	return nil
}
