// Package dcatap holds the fixed DCAT-AP-PT vocabulary used to store catalogues in a
// data model: container label prefixes, declared type names and the data elements
// expected under each kind of container. Changing any of these strings breaks
// loading of catalogues saved before the change.
package dcatap

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the entity a container in the remote tree stands for.
type Kind int

const (
	KindUnknown Kind = iota
	KindCatalogue
	KindDataset
	KindDataService
	KindDistribution
	KindSchema
	KindAgent
	KindContact
	KindLegalResource
)

func (k Kind) String() string {
	switch k {
	case KindCatalogue:
		return "catalogue"
	case KindDataset:
		return "dataset"
	case KindDataService:
		return "dataservice"
	case KindDistribution:
		return "distribution"
	case KindSchema:
		return "schema"
	case KindAgent:
		return "agent"
	case KindContact:
		return "contact"
	case KindLegalResource:
		return "legalresource"
	}
	return "unknown"
}

const ContactLabel string = "Contacto"

var prefixes = map[Kind]string{
	KindCatalogue:     "Catálogo - ",
	KindDataset:       "Dataset - ",
	KindDataService:   "DataService - ",
	KindDistribution:  "Distribution - ",
	KindSchema:        "Schema - ",
	KindAgent:         "Agente - ",
	KindLegalResource: "RecursoLegal - ",
}

// classification order, fixed so that Classify is deterministic
var prefixedKinds = []Kind{
	KindCatalogue, KindDataset, KindDataService, KindDistribution, KindSchema, KindAgent, KindLegalResource,
}

// PrefixFor returns the label prefix of a kind, or an empty string for kinds that
// are identified by an exact label (contacts) or not at all.
func PrefixFor(k Kind) string {
	return prefixes[k]
}

func Label(k Kind, title string) string {
	if k == KindContact {
		return ContactLabel
	}
	return prefixes[k] + title
}

// StripPrefix returns the title encoded in label if the label carries the prefix of kind k.
func StripPrefix(label string, k Kind) (string, bool) {
	if k == KindContact {
		return "", label == ContactLabel
	}

	prefix, ok := prefixes[k]
	if !ok || !strings.HasPrefix(label, prefix) {
		return "", false
	}

	return strings.TrimPrefix(label, prefix), true
}

// Classify tells which kind of container a label belongs to. Labels that follow no
// known convention are KindUnknown.
func Classify(label string) (Kind, string) {
	if label == ContactLabel {
		return KindContact, ""
	}

	for _, k := range prefixedKinds {
		if title, ok := StripPrefix(label, k); ok {
			return k, title
		}
	}

	return KindUnknown, label
}

func DistributionLabel(datasetTitle, format string) string {
	return Label(KindDistribution, datasetTitle+"."+format)
}

// DistributionFormat recovers the format from a distribution label of the given dataset.
func DistributionFormat(label, datasetTitle string) (string, bool) {
	title, ok := StripPrefix(label, KindDistribution)
	if !ok || !strings.HasPrefix(title, datasetTitle+".") {
		return "", false
	}
	return strings.TrimPrefix(title, datasetTitle+"."), true
}

func SchemaLabel(datasetTitle string) string {
	return Label(KindSchema, datasetTitle)
}

func LegalResourceLabel(jurisdiction, legalAct string) string {
	return Label(KindLegalResource, jurisdiction+"."+legalAct)
}

// ContactFieldLabel numbers the contact data elements that share one Contacto
// container. The first contact uses the bare label.
func ContactFieldLabel(base string, index int) string {
	if index == 0 {
		return base
	}
	return fmt.Sprintf("%s %d", base, index+1)
}

// ParseContactFieldLabel is the inverse of ContactFieldLabel.
func ParseContactFieldLabel(label string) (string, int, bool) {
	for _, base := range []string{LabelMail, LabelPhone} {
		if label == base {
			return base, 0, true
		}

		if !strings.HasPrefix(label, base+" ") {
			continue
		}

		n, err := strconv.Atoi(strings.TrimPrefix(label, base+" "))
		if err != nil || n < 2 {
			return "", 0, false
		}

		return base, n - 1, true
	}

	return "", 0, false
}
