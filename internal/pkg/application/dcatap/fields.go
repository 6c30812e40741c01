package dcatap

// Unbounded is the maximum multiplicity of a repeatable element.
const Unbounded int = -1

type Multiplicity struct {
	Min int
	Max int
}

var (
	exactlyOne  = Multiplicity{Min: 1, Max: 1}
	atLeastOne  = Multiplicity{Min: 1, Max: Unbounded}
	optional    = Multiplicity{Min: 0, Max: 1}
	anyNumberOf = Multiplicity{Min: 0, Max: Unbounded}
)

// Declared type names a data model must provide.
const (
	TypeString      string = "String"
	TypeText        string = "Text"
	TypeDate        string = "Date"
	TypeDecimal     string = "Decimal"
	TypeAccessLevel string = "Níveis_Acesso"
	TypeCategory    string = "Categoria"
	TypeLegalAct    string = "Tipo_Acto_Jurídico"
	TypeLicense     string = "Licença"
)

// FallbackType is used for a field whose declared type is missing from the model.
const FallbackType string = TypeString

// Data element labels.
const (
	LabelTitle        string = "Título"
	LabelDescription  string = "Descrição"
	LabelLanguage     string = "Idioma"
	LabelModified     string = "Modificado"
	LabelHomepage     string = "Homepage"
	LabelOwner        string = "Proprietário"
	LabelAccess       string = "Acesso"
	LabelVersion      string = "Versão"
	LabelCategory     string = "Categoria"
	LabelKeywords     string = "Palavras-chave"
	LabelFormat       string = "Formato"
	LabelAccessURL    string = "URL de Acesso"
	LabelDownloadURL  string = "URL de Download"
	LabelCreated      string = "Criado"
	LabelLicense      string = "Licença"
	LabelEndpoint     string = "Endpoint"
	LabelURL          string = "URL"
	LabelIdentifier   string = "Identificador"
	LabelMail         string = "Mail"
	LabelPhone        string = "Telef."
	LabelJurisdiction string = "Jurisdição"
	LabelLegalAct     string = "Tipo de Acto Jurídico"
)

// Field describes one data element stored under a container.
type Field struct {
	Label        string
	TypeName     string
	Multiplicity Multiplicity
}

var fields = map[Kind][]Field{
	KindCatalogue: {
		{LabelTitle, TypeString, exactlyOne},
		{LabelDescription, TypeText, exactlyOne},
		{LabelLanguage, TypeString, atLeastOne},
		{LabelModified, TypeDate, exactlyOne},
		{LabelHomepage, TypeText, exactlyOne},
		{LabelOwner, TypeString, exactlyOne},
	},
	KindDataset: {
		{LabelTitle, TypeString, exactlyOne},
		{LabelDescription, TypeText, exactlyOne},
		{LabelModified, TypeDate, exactlyOne},
		{LabelAccess, TypeAccessLevel, exactlyOne},
		{LabelVersion, TypeDecimal, exactlyOne},
		{LabelCategory, TypeCategory, exactlyOne},
		{LabelLanguage, TypeString, atLeastOne},
		{LabelKeywords, TypeString, anyNumberOf},
	},
	KindDistribution: {
		{LabelTitle, TypeString, exactlyOne},
		{LabelDescription, TypeText, exactlyOne},
		{LabelFormat, TypeString, exactlyOne},
		{LabelAccessURL, TypeText, exactlyOne},
		{LabelDownloadURL, TypeText, exactlyOne},
		{LabelModified, TypeDate, exactlyOne},
		{LabelCreated, TypeDate, exactlyOne},
		{LabelLicense, TypeLicense, exactlyOne},
	},
	KindDataService: {
		{LabelTitle, TypeString, exactlyOne},
		{LabelFormat, TypeString, exactlyOne},
		{LabelDescription, TypeText, exactlyOne},
		{LabelEndpoint, TypeText, atLeastOne},
		{LabelLicense, TypeLicense, exactlyOne},
		{LabelAccess, TypeAccessLevel, exactlyOne},
	},
	KindAgent: {
		{LabelDescription, TypeText, optional},
		{LabelURL, TypeText, optional},
		{LabelIdentifier, TypeString, optional},
	},
	KindContact: {
		{LabelMail, TypeString, optional},
		{LabelPhone, TypeString, optional},
	},
	KindLegalResource: {
		{LabelJurisdiction, TypeString, exactlyOne},
		{LabelLegalAct, TypeLegalAct, exactlyOne},
	},
}

// Fields lists the data elements of a kind in storage order.
func Fields(k Kind) []Field {
	return fields[k]
}

func FieldFor(k Kind, label string) (Field, bool) {
	for _, f := range fields[k] {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// SchemaFieldMultiplicity applies to every row of a dataset schema.
var SchemaFieldMultiplicity = optional

var containerMultiplicities = map[Kind]Multiplicity{
	KindCatalogue:     exactlyOne,
	KindDataset:       atLeastOne,
	KindDistribution:  atLeastOne,
	KindSchema:        exactlyOne,
	KindDataService:   atLeastOne,
	KindAgent:         anyNumberOf,
	KindContact:       optional,
	KindLegalResource: anyNumberOf,
}

func ContainerMultiplicity(k Kind) Multiplicity {
	if m, ok := containerMultiplicities[k]; ok {
		return m
	}
	return anyNumberOf
}
