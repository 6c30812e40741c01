package dcatap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
)

// Value pairs a data element label with the value entered in the form.
type Value struct {
	Label string
	Value string
}

const keywordSeparator string = ", "

func CatalogueValues(c domain.Catalogue) []Value {
	return []Value{
		{LabelTitle, c.Title},
		{LabelDescription, c.Description},
		{LabelLanguage, c.Language},
		{LabelModified, c.ModifiedDate},
		{LabelHomepage, c.Homepage},
		{LabelOwner, c.Owner},
	}
}

// SetCatalogueValue stores a loaded data element value in c. Unknown labels are ignored.
func SetCatalogueValue(c *domain.Catalogue, label, value string) {
	switch label {
	case LabelTitle:
		c.Title = value
	case LabelDescription:
		c.Description = value
	case LabelLanguage:
		c.Language = value
	case LabelModified:
		c.ModifiedDate = value
	case LabelHomepage:
		c.Homepage = value
	case LabelOwner:
		c.Owner = value
	}
}

func DatasetValues(d domain.Dataset) []Value {
	version := ""
	if d.Version != 0 {
		version = strconv.FormatFloat(d.Version, 'f', -1, 64)
	}

	return []Value{
		{LabelTitle, d.Title},
		{LabelDescription, d.Description},
		{LabelModified, d.ModifiedDate},
		{LabelAccess, d.Access},
		{LabelVersion, version},
		{LabelCategory, d.Category},
		{LabelLanguage, d.Language},
		{LabelKeywords, strings.Join(d.Tags, keywordSeparator)},
	}
}

func SetDatasetValue(d *domain.Dataset, label, value string) {
	switch label {
	case LabelTitle:
		d.Title = value
	case LabelDescription:
		d.Description = value
	case LabelModified:
		d.ModifiedDate = value
	case LabelAccess:
		d.Access = value
	case LabelVersion:
		if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			d.Version = v
		}
	case LabelCategory:
		d.Category = value
	case LabelLanguage:
		d.Language = value
	case LabelKeywords:
		d.Tags = splitKeywords(value)
	}
}

func splitKeywords(value string) []string {
	tags := []string{}
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func DistributionValues(d domain.Distribution) []Value {
	return []Value{
		{LabelTitle, d.Title},
		{LabelDescription, d.Description},
		{LabelFormat, d.Format},
		{LabelAccessURL, d.AccessURL},
		{LabelDownloadURL, d.DownloadURL},
		{LabelModified, d.Modified},
		{LabelCreated, d.Created},
		{LabelLicense, d.License},
	}
}

func SetDistributionValue(d *domain.Distribution, label, value string) {
	switch label {
	case LabelTitle:
		d.Title = value
	case LabelDescription:
		d.Description = value
	case LabelFormat:
		d.Format = value
	case LabelAccessURL:
		d.AccessURL = value
	case LabelDownloadURL:
		d.DownloadURL = value
	case LabelModified:
		d.Modified = value
	case LabelCreated:
		d.Created = value
	case LabelLicense:
		d.License = value
	}
}

// DistributionDescription is the container description of a distribution.
func DistributionDescription(datasetTitle, format string) string {
	return fmt.Sprintf("Distribuição do dataset %s em formato %s", datasetTitle, format)
}

func DataServiceValues(s domain.DataService) []Value {
	return []Value{
		{LabelTitle, s.Title},
		{LabelFormat, s.Format},
		{LabelDescription, s.Description},
		{LabelEndpoint, s.EndpointURL},
		{LabelLicense, s.License},
		{LabelAccess, s.Access},
	}
}

func SetDataServiceValue(s *domain.DataService, label, value string) {
	switch label {
	case LabelTitle:
		s.Title = value
	case LabelFormat:
		s.Format = value
	case LabelDescription:
		s.Description = value
	case LabelEndpoint:
		s.EndpointURL = value
	case LabelLicense:
		s.License = value
	case LabelAccess:
		s.Access = value
	}
}

func AgentValues(a domain.Agent) []Value {
	return []Value{
		{LabelDescription, a.Description},
		{LabelURL, a.URL},
		{LabelIdentifier, a.ID},
	}
}

func SetAgentValue(a *domain.Agent, label, value string) {
	switch label {
	case LabelDescription:
		a.Description = value
	case LabelURL:
		a.URL = value
	case LabelIdentifier:
		a.ID = value
	}
}

// ContactValues numbers the mail and phone elements of every contact so that all of
// them fit in one Contacto container.
func ContactValues(contacts []domain.Contact) []Value {
	values := make([]Value, 0, 2*len(contacts))
	for i, c := range contacts {
		values = append(values,
			Value{ContactFieldLabel(LabelMail, i), c.Mail},
			Value{ContactFieldLabel(LabelPhone, i), c.Phone},
		)
	}
	return values
}

// SetContactValue stores a loaded contact element, growing contacts as needed.
func SetContactValue(contacts []domain.Contact, label, value string) []domain.Contact {
	base, i, ok := ParseContactFieldLabel(label)
	if !ok {
		return contacts
	}

	for len(contacts) <= i {
		contacts = append(contacts, domain.Contact{})
	}

	switch base {
	case LabelMail:
		contacts[i].Mail = value
	case LabelPhone:
		contacts[i].Phone = value
	}

	return contacts
}

func LegalResourceValues(lr domain.LegalResource) []Value {
	return []Value{
		{LabelJurisdiction, lr.Jurisdiction},
		{LabelLegalAct, lr.LegalAct},
	}
}

func SetLegalResourceValue(lr *domain.LegalResource, label, value string) {
	switch label {
	case LabelJurisdiction:
		lr.Jurisdiction = value
	case LabelLegalAct:
		lr.LegalAct = value
	}
}
