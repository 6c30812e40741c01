package mdm

import (
	"fmt"
)

// Unbounded is the maximum multiplicity of a repeatable item.
const Unbounded int = -1

type Multiplicity struct {
	Min int
	Max int
}

// Container is a data class in the remote tree.
type Container struct {
	ID           string
	ParentID     string
	Label        string
	Description  string
	Multiplicity Multiplicity
	Index        int
}

// Leaf is a data element. The value entered in the form is kept in its description.
type Leaf struct {
	ID           string
	ContainerID  string
	Label        string
	Value        string
	DataType     DataTypeRef
	Multiplicity Multiplicity
	Index        int
}

type DataTypeRef struct {
	ID    string
	Label string
}

type EnumerationValue struct {
	ID    string
	Key   string
	Value string
}

type DataType struct {
	ID                string
	Label             string
	DomainType        string
	EnumerationValues []EnumerationValue
}

func (dt DataType) IsEnumeration() bool {
	return dt.DomainType == EnumerationType || len(dt.EnumerationValues) > 0
}

// Accepts reports whether value names one of the enumeration values, by key or by value.
// Every value is accepted by a type that is not an enumeration.
func (dt DataType) Accepts(value string) bool {
	if !dt.IsEnumeration() {
		return true
	}

	for _, ev := range dt.EnumerationValues {
		if ev.Key == value || ev.Value == value {
			return true
		}
	}

	return false
}

const (
	PrimitiveType   string = "PrimitiveType"
	EnumerationType string = "EnumerationType"
)

// DeclaredTypes is the set of data types declared by one data model.
type DeclaredTypes struct {
	ordered []DataType
	byLabel map[string]int
	byID    map[string]int
}

func NewDeclaredTypes(types []DataType) DeclaredTypes {
	d := DeclaredTypes{
		ordered: types,
		byLabel: map[string]int{},
		byID:    map[string]int{},
	}

	for i, dt := range types {
		if _, exists := d.byLabel[dt.Label]; !exists {
			d.byLabel[dt.Label] = i
		}
		d.byID[dt.ID] = i
	}

	return d
}

func (d DeclaredTypes) Lookup(label string) (DataType, bool) {
	i, ok := d.byLabel[label]
	if !ok {
		return DataType{}, false
	}
	return d.ordered[i], true
}

func (d DeclaredTypes) ByID(id string) (DataType, bool) {
	i, ok := d.byID[id]
	if !ok {
		return DataType{}, false
	}
	return d.ordered[i], true
}

func (d DeclaredTypes) Has(label string) bool {
	_, ok := d.byLabel[label]
	return ok
}

func (d DeclaredTypes) All() []DataType {
	return d.ordered
}

type DataModel struct {
	ID           string
	Label        string
	Description  string
	Organisation string
}

type User struct {
	ID           string `json:"id"`
	EmailAddress string `json:"emailAddress"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Pending      bool   `json:"pending"`
	Disabled     bool   `json:"disabled"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// Session is the outcome of a successful login. Token scopes later clients, see WithSessionToken.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type NewContainer struct {
	Label        string
	Description  string
	Multiplicity Multiplicity
	Index        int
}

// LeafInput creates a data element when ID is empty and updates it in place otherwise.
type LeafInput struct {
	ID           string
	Label        string
	Value        string
	DataTypeID   string
	Multiplicity Multiplicity
	Index        int
}

type NewDataModel struct {
	Label        string
	Description  string
	Organisation string
}

type TypeDeclaration struct {
	Label             string
	EnumerationValues []EnumerationValue
}

// wire formats

type listDTO[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

type dataClassDTO struct {
	ID              string `json:"id,omitempty"`
	DomainType      string `json:"domainType,omitempty"`
	Label           string `json:"label"`
	Description     string `json:"description"`
	Model           string `json:"model,omitempty"`
	ParentDataClass string `json:"parentDataClass,omitempty"`
	MinMultiplicity int    `json:"minMultiplicity"`
	MaxMultiplicity int    `json:"maxMultiplicity"`
	Index           int    `json:"index"`
}

func (dto dataClassDTO) toContainer() (Container, error) {
	if dto.ID == "" || dto.Label == "" {
		return Container{}, fmt.Errorf("%w: data class without id or label", ErrMalformedResponse)
	}

	return Container{
		ID:           dto.ID,
		ParentID:     dto.ParentDataClass,
		Label:        dto.Label,
		Description:  dto.Description,
		Multiplicity: Multiplicity{Min: dto.MinMultiplicity, Max: dto.MaxMultiplicity},
		Index:        dto.Index,
	}, nil
}

type dataTypeRefDTO struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	DomainType string `json:"domainType,omitempty"`
}

type dataElementDTO struct {
	ID              string          `json:"id,omitempty"`
	DomainType      string          `json:"domainType,omitempty"`
	Label           string          `json:"label"`
	Description     string          `json:"description"`
	DataClass       string          `json:"dataClass,omitempty"`
	DataType        *dataTypeRefDTO `json:"dataType,omitempty"`
	MinMultiplicity int             `json:"minMultiplicity"`
	MaxMultiplicity int             `json:"maxMultiplicity"`
	Index           int             `json:"index"`
}

func (dto dataElementDTO) toLeaf() (Leaf, error) {
	if dto.ID == "" || dto.Label == "" {
		return Leaf{}, fmt.Errorf("%w: data element without id or label", ErrMalformedResponse)
	}

	l := Leaf{
		ID:           dto.ID,
		ContainerID:  dto.DataClass,
		Label:        dto.Label,
		Value:        dto.Description,
		Multiplicity: Multiplicity{Min: dto.MinMultiplicity, Max: dto.MaxMultiplicity},
		Index:        dto.Index,
	}

	if dto.DataType != nil {
		l.DataType = DataTypeRef{ID: dto.DataType.ID, Label: dto.DataType.Label}
	}

	return l, nil
}

// dataElementInputDTO refers to its data type by id only.
type dataElementInputDTO struct {
	Label           string `json:"label"`
	Description     string `json:"description"`
	DataType        string `json:"dataType"`
	MinMultiplicity int    `json:"minMultiplicity"`
	MaxMultiplicity int    `json:"maxMultiplicity"`
	Index           int    `json:"index"`
}

type enumerationValueDTO struct {
	ID    string `json:"id,omitempty"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type dataTypeDTO struct {
	ID                string                `json:"id,omitempty"`
	DomainType        string                `json:"domainType"`
	Label             string                `json:"label"`
	EnumerationValues []enumerationValueDTO `json:"enumerationValues,omitempty"`
}

func (dto dataTypeDTO) toDataType() (DataType, error) {
	if dto.ID == "" || dto.Label == "" {
		return DataType{}, fmt.Errorf("%w: data type without id or label", ErrMalformedResponse)
	}

	dt := DataType{
		ID:                dto.ID,
		Label:             dto.Label,
		DomainType:        dto.DomainType,
		EnumerationValues: make([]EnumerationValue, 0, len(dto.EnumerationValues)),
	}

	for _, ev := range dto.EnumerationValues {
		dt.EnumerationValues = append(dt.EnumerationValues, EnumerationValue{ID: ev.ID, Key: ev.Key, Value: ev.Value})
	}

	return dt, nil
}

type dataModelDTO struct {
	ID           string `json:"id,omitempty"`
	DomainType   string `json:"domainType,omitempty"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	Organisation string `json:"organisation,omitempty"`
	Type         string `json:"type,omitempty"`
}

func (dto dataModelDTO) toDataModel() (DataModel, error) {
	if dto.ID == "" {
		return DataModel{}, fmt.Errorf("%w: data model without id", ErrMalformedResponse)
	}

	return DataModel{
		ID:           dto.ID,
		Label:        dto.Label,
		Description:  dto.Description,
		Organisation: dto.Organisation,
	}, nil
}

func convertAll[D any, T any](items []D, convert func(D) (T, error)) ([]T, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		t, err := convert(item)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}
