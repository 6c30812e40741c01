package organisations

import (
	"bytes"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestLoad(t *testing.T) {
	is := is.New(t)

	config := bytes.NewBufferString(configFile)
	svc, err := NewRegistry(config)
	is.NoErr(err)

	org, err := svc.Get("test0")

	is.NoErr(err)
	is.Equal(org.Name, "foo")
}

func TestListIsOrderedByName(t *testing.T) {
	is := is.New(t)

	svc, err := NewRegistry(bytes.NewBufferString(configFile))
	is.NoErr(err)

	orgs := svc.List()
	is.Equal(len(orgs), 3)
	is.Equal(orgs[0].Name, "bar")
	is.Equal(orgs[1].Name, "foo")
	is.Equal(orgs[2].Name, "test2") // name defaults to the id
}

func TestUnknownOrganisation(t *testing.T) {
	is := is.New(t)

	svc, err := NewRegistry(bytes.NewBufferString(configFile))
	is.NoErr(err)

	_, err = svc.Get("nope")
	is.True(errors.Is(err, ErrNoSuchOrganisation))
}

func TestDuplicateIDsAreRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewRegistry(bytes.NewBufferString(`
organisations:
  - id: test0
    name: foo
  - id: test0
    name: bar
`))
	is.True(err != nil)
}

func TestEmptyInputGivesEmptyRegistry(t *testing.T) {
	is := is.New(t)

	svc, err := NewRegistry(bytes.NewBufferString(""))
	is.NoErr(err)
	is.Equal(len(svc.List()), 0)
}

const configFile string = `
organisations:
  - id: test0
    name: foo
  - id: test1
    name: bar
    url: https://bar.example.pt
  - id: test2
`
