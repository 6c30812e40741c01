package organisations

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"
)

var ErrNoSuchOrganisation = errors.New("no such organisation")

// Organisation publishes catalogues. A new data model is owned by one of them.
type Organisation struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
}

type Registry interface {
	Get(organisationID string) (*Organisation, error)
	List() []Organisation
}

// NewRegistry reads a yaml document with a list of organisations
//
//	organisations:
//	  - id: cm-lisboa
//	    name: Câmara Municipal de Lisboa
func NewRegistry(input io.Reader) (Registry, error) {
	b, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read organisations: %w", err)
	}

	config := struct {
		Organisations []Organisation `yaml:"organisations"`
	}{}

	err = yaml.Unmarshal(b, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse organisations: %w", err)
	}

	r := &registry{
		organisations: map[string]Organisation{},
	}

	for _, o := range config.Organisations {
		if strings.TrimSpace(o.ID) == "" {
			return nil, fmt.Errorf("organisation %q has no id", o.Name)
		}

		if _, exists := r.organisations[o.ID]; exists {
			return nil, fmt.Errorf("organisation %q is listed twice", o.ID)
		}

		if o.Name == "" {
			o.Name = o.ID
		}

		r.organisations[o.ID] = o
		r.ordered = append(r.ordered, o)
	}

	slices.SortStableFunc(r.ordered, func(a, b Organisation) bool {
		return a.Name < b.Name
	})

	return r, nil
}

type registry struct {
	organisations map[string]Organisation
	ordered       []Organisation
}

func (r *registry) Get(organisationID string) (*Organisation, error) {
	o, ok := r.organisations[organisationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchOrganisation, organisationID)
	}
	return &o, nil
}

// List returns every organisation ordered by name.
func (r *registry) List() []Organisation {
	result := make([]Organisation, len(r.ordered))
	copy(result, r.ordered)
	return result
}
