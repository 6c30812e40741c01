package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Slot names a nested collection within the form state.
type Slot string

const (
	Datasets       Slot = "datasets"
	DataServices   Slot = "dataservices"
	Distributions  Slot = "distributions"
	SchemaFields   Slot = "schema"
	Agents         Slot = "agents"
	Contacts       Slot = "contacts"
	LegalResources Slot = "recursosLegais"
)

var ErrInvalidPath = errors.New("invalid form path")
var ErrIndexOutOfRange = errors.New("index out of range")

type Step struct {
	Slot  Slot
	Index int
}

// Path addresses a node in a Form, starting at the form root.
// An empty path is the root itself.
type Path []Step

func (p Path) Child(slot Slot, index int) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, Step{Slot: slot, Index: index})
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		parts = append(parts, fmt.Sprintf("%s.%d", s.Slot, s.Index))
	}
	return strings.Join(parts, ".")
}

// Form is the single owner of one catalogue being edited, together with the
// standalone agents and legal resources of its data model. Nested editors are
// handed a Path instead of a reference into the tree.
//
// Pointers returned by At are invalidated by any Add or Remove on the same
// collection.
type Form struct {
	Catalogue Catalogue `json:"catalogue"`
	Directory Directory `json:"directory"`
}

func NewForm() *Form {
	return &Form{
		Catalogue: NewCatalogue(),
		Directory: NewDirectory(),
	}
}

// At resolves a path to a typed node, e.g. At[Dataset](f, Path{{Datasets, 0}}).
func At[T any](f *Form, p Path) (*T, error) {
	n, err := f.node(p)
	if err != nil {
		return nil, err
	}

	t, ok := n.(*T)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not address a %T", ErrInvalidPath, p, t)
	}

	return t, nil
}

// Len returns the number of rows in a slot of the node at parent.
func (f *Form) Len(parent Path, slot Slot) (int, error) {
	n, err := f.node(parent)
	if err != nil {
		return 0, err
	}

	l := -1

	switch v := n.(type) {
	case *Form:
		switch slot {
		case Datasets:
			l = len(v.Catalogue.Datasets)
		case DataServices:
			l = len(v.Catalogue.DataServices)
		case Agents:
			l = len(v.Directory.Agents)
		case LegalResources:
			l = len(v.Directory.LegalResources)
		}
	case *Dataset:
		switch slot {
		case Distributions:
			l = len(v.Distributions)
		case SchemaFields:
			l = len(v.Schema)
		}
	case *LegalResource:
		if slot == Agents {
			l = len(v.Agents)
		}
	case *Agent:
		if slot == Contacts {
			l = len(v.Contacts)
		}
	}

	if l < 0 {
		return 0, fmt.Errorf("%w: no slot %q at %s", ErrInvalidPath, slot, parent)
	}

	return l, nil
}

// Add inserts a default row into a slot of the node at parent, before position at.
// A negative at appends. The path of the new row is returned.
func (f *Form) Add(parent Path, slot Slot, at int) (Path, error) {
	n, err := f.node(parent)
	if err != nil {
		return nil, err
	}

	var idx int

	switch v := n.(type) {
	case *Form:
		switch slot {
		case Datasets:
			v.Catalogue.Datasets, idx, err = insertAt(v.Catalogue.Datasets, at, NewDataset())
		case DataServices:
			v.Catalogue.DataServices, idx, err = insertAt(v.Catalogue.DataServices, at, DataService{})
		case Agents:
			v.Directory.Agents, idx, err = insertAt(v.Directory.Agents, at, NewAgent())
		case LegalResources:
			v.Directory.LegalResources, idx, err = insertAt(v.Directory.LegalResources, at, NewLegalResource())
		default:
			err = errNoSlot(slot, parent)
		}
	case *Dataset:
		switch slot {
		case Distributions:
			v.Distributions, idx, err = insertAt(v.Distributions, at, Distribution{})
		case SchemaFields:
			v.Schema, idx, err = insertAt(v.Schema, at, SchemaField{})
		default:
			err = errNoSlot(slot, parent)
		}
	case *LegalResource:
		if slot != Agents {
			return nil, errNoSlot(slot, parent)
		}
		v.Agents, idx, err = insertAt(v.Agents, at, NewAgent())
	case *Agent:
		if slot != Contacts {
			return nil, errNoSlot(slot, parent)
		}
		v.Contacts, idx, err = insertAt(v.Contacts, at, Contact{})
	default:
		err = errNoSlot(slot, parent)
	}

	if err != nil {
		return nil, err
	}

	return parent.Child(slot, idx), nil
}

// Remove deletes the row addressed by p. Siblings keep their order and ids.
func (f *Form) Remove(p Path) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: the form root can not be removed", ErrInvalidPath)
	}

	n, err := f.node(p.Parent())
	if err != nil {
		return err
	}

	last := p[len(p)-1]

	switch v := n.(type) {
	case *Form:
		switch last.Slot {
		case Datasets:
			v.Catalogue.Datasets, err = removeAt(v.Catalogue.Datasets, last.Index)
		case DataServices:
			v.Catalogue.DataServices, err = removeAt(v.Catalogue.DataServices, last.Index)
		case Agents:
			v.Directory.Agents, err = removeAt(v.Directory.Agents, last.Index)
		case LegalResources:
			v.Directory.LegalResources, err = removeAt(v.Directory.LegalResources, last.Index)
		default:
			err = errNoSlot(last.Slot, p.Parent())
		}
	case *Dataset:
		switch last.Slot {
		case Distributions:
			v.Distributions, err = removeAt(v.Distributions, last.Index)
		case SchemaFields:
			v.Schema, err = removeAt(v.Schema, last.Index)
		default:
			err = errNoSlot(last.Slot, p.Parent())
		}
	case *LegalResource:
		if last.Slot != Agents {
			return errNoSlot(last.Slot, p.Parent())
		}
		v.Agents, err = removeAt(v.Agents, last.Index)
	case *Agent:
		if last.Slot != Contacts {
			return errNoSlot(last.Slot, p.Parent())
		}
		v.Contacts, err = removeAt(v.Contacts, last.Index)
	default:
		err = errNoSlot(last.Slot, p.Parent())
	}

	return err
}

func (f *Form) node(p Path) (any, error) {
	var current any = f

	for i, s := range p {
		var next any

		switch v := current.(type) {
		case *Form:
			switch s.Slot {
			case Datasets:
				next = elementAt(v.Catalogue.Datasets, s.Index)
			case DataServices:
				next = elementAt(v.Catalogue.DataServices, s.Index)
			case Agents:
				next = elementAt(v.Directory.Agents, s.Index)
			case LegalResources:
				next = elementAt(v.Directory.LegalResources, s.Index)
			}
		case *Dataset:
			switch s.Slot {
			case Distributions:
				next = elementAt(v.Distributions, s.Index)
			case SchemaFields:
				next = elementAt(v.Schema, s.Index)
			}
		case *LegalResource:
			if s.Slot == Agents {
				next = elementAt(v.Agents, s.Index)
			}
		case *Agent:
			if s.Slot == Contacts {
				next = elementAt(v.Contacts, s.Index)
			}
		}

		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPath, p[:i+1])
		}

		current = next
	}

	return current, nil
}

func errNoSlot(slot Slot, p Path) error {
	return fmt.Errorf("%w: no slot %q at %q", ErrInvalidPath, slot, p)
}

// elementAt returns nil (as an untyped interface) when i is out of range so that
// callers can tell a miss from a hit.
func elementAt[T any](s []T, i int) any {
	if i < 0 || i >= len(s) {
		return nil
	}
	return &s[i]
}

func insertAt[T any](s []T, at int, v T) ([]T, int, error) {
	if at < 0 || at == len(s) {
		return append(s, v), len(s), nil
	}

	if at > len(s) {
		return s, 0, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, at, len(s))
	}

	s = append(s, v)
	copy(s[at+1:], s[at:])
	s[at] = v

	return s, at, nil
}

func removeAt[T any](s []T, at int) ([]T, error) {
	if at < 0 || at >= len(s) {
		return s, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, at, len(s))
	}

	return append(s[:at], s[at+1:]...), nil
}
