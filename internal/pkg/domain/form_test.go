package domain

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestAddAppendsDefaultRows(t *testing.T) {
	is := is.New(t)
	f := NewForm()

	p, err := f.Add(nil, Datasets, -1)
	is.NoErr(err)
	is.Equal(p.String(), "datasets.0")

	ds, err := At[Dataset](f, p)
	is.NoErr(err)
	is.Equal(len(ds.Schema), 1) // a new dataset carries one empty schema row
	is.True(ds.Schema[0].IsEmpty())
	is.Equal(len(ds.Distributions), 0)
}

func TestAddInsertsBeforeIndex(t *testing.T) {
	is := is.New(t)
	f := NewForm()
	f.Catalogue.Datasets = []Dataset{{ID: "a", Title: "A"}, {ID: "c", Title: "C"}}

	p, err := f.Add(nil, Datasets, 1)
	is.NoErr(err)
	is.Equal(p, Path{{Datasets, 1}})

	ds, _ := At[Dataset](f, p)
	ds.Title = "B"

	is.Equal(len(f.Catalogue.Datasets), 3)
	is.Equal(f.Catalogue.Datasets[0].ID, "a")
	is.Equal(f.Catalogue.Datasets[1].Title, "B")
	is.Equal(f.Catalogue.Datasets[2].ID, "c")
}

func TestRemoveKeepsSiblingIDs(t *testing.T) {
	is := is.New(t)
	f := NewForm()
	f.Catalogue.Datasets = []Dataset{NewDataset()}
	f.Catalogue.Datasets[0].Schema = []SchemaField{
		{ID: "f1", Label: "nome"},
		{ID: "f2", Label: "idade"},
		{ID: "f3", Label: "morada"},
	}

	err := f.Remove(Path{{Datasets, 0}, {SchemaFields, 1}})
	is.NoErr(err)

	schema := f.Catalogue.Datasets[0].Schema
	is.Equal(len(schema), 2)
	is.Equal(schema[0].ID, "f1")
	is.Equal(schema[1].ID, "f3")
	is.Equal(schema[1].Label, "morada")
}

func TestNestedAgentContacts(t *testing.T) {
	is := is.New(t)
	f := NewForm()

	lr, err := f.Add(nil, LegalResources, -1)
	is.NoErr(err)

	agent, err := f.Add(lr, Agents, -1)
	is.NoErr(err)
	is.Equal(agent.String(), "recursosLegais.0.agents.0")

	_, err = f.Add(agent, Contacts, -1)
	is.NoErr(err)
	_, err = f.Add(agent, Contacts, 0)
	is.NoErr(err)

	n, err := f.Len(agent, Contacts)
	is.NoErr(err)
	is.Equal(n, 2)

	a, err := At[Agent](f, agent)
	is.NoErr(err)
	a.Name = "AMA"
	is.Equal(f.Directory.LegalResources[0].Agents[0].Name, "AMA")
}

func TestInvalidPaths(t *testing.T) {
	is := is.New(t)
	f := NewForm()

	_, err := f.Add(nil, Contacts, -1)
	is.True(errors.Is(err, ErrInvalidPath)) // contacts do not live at the root

	_, err = f.Add(Path{{Datasets, 0}}, Distributions, -1)
	is.True(errors.Is(err, ErrInvalidPath)) // there is no dataset 0 yet

	p, _ := f.Add(nil, Datasets, -1)
	_, err = f.Add(p, Distributions, 5)
	is.True(errors.Is(err, ErrIndexOutOfRange))

	err = f.Remove(p.Child(Distributions, 0))
	is.True(errors.Is(err, ErrIndexOutOfRange))

	_, err = At[Agent](f, p)
	is.True(errors.Is(err, ErrInvalidPath)) // a dataset path is not an agent

	err = f.Remove(nil)
	is.True(errors.Is(err, ErrInvalidPath))
}
