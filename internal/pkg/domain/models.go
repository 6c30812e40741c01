package domain

// Catalogue is the root of the form state, a dcat:Catalog with its datasets and data services.
type Catalogue struct {
	ID           string        `json:"id,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Language     string        `json:"language"`
	ModifiedDate string        `json:"modifiedDate"`
	Homepage     string        `json:"homepage"`
	Owner        string        `json:"owner"`
	Datasets     []Dataset     `json:"datasets"`
	DataServices []DataService `json:"dataservices"`
}

// Dataset is a dcat:Dataset. Every dataset owns exactly one schema.
type Dataset struct {
	ID            string         `json:"id,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Access        string         `json:"access"`
	Category      string         `json:"category"`
	Version       float64        `json:"version"`
	ModifiedDate  string         `json:"modified_date"`
	Language      string         `json:"language"`
	Tags          []string       `json:"tags"`
	Distributions []Distribution `json:"distributions"`
	Schema        []SchemaField  `json:"schema"`
}

// Distribution is a dcat:Distribution of a dataset. Format tells distributions of
// the same dataset apart.
type Distribution struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	License     string `json:"license"`
	Format      string `json:"format"`
	Modified    string `json:"modified"`
	Created     string `json:"created"`
	AccessURL   string `json:"accessURL"`
	DownloadURL string `json:"downloadURL"`
}

type DataService struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EndpointURL string `json:"endpoint_url"`
	License     string `json:"license"`
	Access      string `json:"access"`
	Format      string `json:"format"`
}

type Agent struct {
	ContainerID string    `json:"containerId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ID          string    `json:"id"`
	Contacts    []Contact `json:"contacts"`
}

type Contact struct {
	Mail  string `json:"mail"`
	Phone string `json:"phone"`
}

func (c Contact) IsEmpty() bool {
	return c.Mail == "" && c.Phone == ""
}

// LegalResource is a legal act (recurso legal) and the agents bound by it.
type LegalResource struct {
	ID           string  `json:"id,omitempty"`
	Jurisdiction string  `json:"jurisdiction"`
	LegalAct     string  `json:"legalAct"`
	Agents       []Agent `json:"agents"`
}

// SchemaField is one row of a dataset schema.
type SchemaField struct {
	ID          string      `json:"id,omitempty"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	DataType    DataTypeRef `json:"dataType"`
}

func (f SchemaField) IsEmpty() bool {
	return f.Label == "" && f.Description == "" && f.DataType.ID == "" && f.DataType.Label == ""
}

type DataTypeRef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Directory holds the agents and legal resources that live at the root of a data model
// rather than inside a catalogue.
type Directory struct {
	Agents         []Agent         `json:"agents"`
	LegalResources []LegalResource `json:"recursosLegais"`
}

func NewCatalogue() Catalogue {
	return Catalogue{
		Datasets:     []Dataset{},
		DataServices: []DataService{},
	}
}

func NewDataset() Dataset {
	return Dataset{
		Tags:          []string{},
		Distributions: []Distribution{},
		Schema:        []SchemaField{{}},
	}
}

func NewAgent() Agent {
	return Agent{Contacts: []Contact{}}
}

func NewLegalResource() LegalResource {
	return LegalResource{Agents: []Agent{}}
}

func NewDirectory() Directory {
	return Directory{
		Agents:         []Agent{},
		LegalResources: []LegalResource{},
	}
}
