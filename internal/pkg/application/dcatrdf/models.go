package dcatrdf

import "encoding/xml"

const (
	nsRdf     string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsDcterms string = "http://purl.org/dc/terms/"
	nsDcat    string = "http://www.w3.org/ns/dcat#"
	nsFoaf    string = "http://xmlns.com/foaf/0.1/"
	nsVcard   string = "http://www.w3.org/2006/vcard/ns#"
	nsOwl     string = "http://www.w3.org/2002/07/owl#"
)

type rdfRDF struct {
	XMLName      xml.Name `xml:"rdf:RDF"`
	Attr_rdf     string   `xml:"xmlns:rdf,attr"`
	Attr_dcterms string   `xml:"xmlns:dcterms,attr"`
	Attr_dcat    string   `xml:"xmlns:dcat,attr"`
	Attr_foaf    string   `xml:"xmlns:foaf,attr"`
	Attr_vcard   string   `xml:"xmlns:vcard,attr"`
	Attr_owl     string   `xml:"xmlns:owl,attr"`

	Catalog       rdfCatalog        `xml:"dcat:Catalog"`
	Datasets      []rdfDataset      `xml:"dcat:Dataset"`
	Distributions []rdfDistribution `xml:"dcat:Distribution"`
	DataServices  []rdfDataService  `xml:"dcat:DataService"`
}

type literal struct {
	XMLLang string `xml:"xml:lang,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type resource struct {
	Attr_rdf_resource string `xml:"rdf:resource,attr"`
}

type publisher struct {
	Agent struct {
		Foaf_name string `xml:"foaf:name"`
	} `xml:"foaf:Agent"`
}

type rdfCatalog struct {
	Attr_rdf_about      string     `xml:"rdf:about,attr"`
	Dcterms_title       literal    `xml:"dcterms:title"`
	Dcterms_description *literal   `xml:"dcterms:description,omitempty"`
	Dcterms_language    string     `xml:"dcterms:language,omitempty"`
	Dcterms_modified    string     `xml:"dcterms:modified,omitempty"`
	Foaf_homepage       *resource  `xml:"foaf:homepage,omitempty"`
	Dcterms_publisher   *publisher `xml:"dcterms:publisher,omitempty"`
	Dcat_dataset        []resource `xml:"dcat:dataset"`
	Dcat_service        []resource `xml:"dcat:service"`
}

type rdfDataset struct {
	Attr_rdf_about       string     `xml:"rdf:about,attr"`
	Dcterms_title        literal    `xml:"dcterms:title"`
	Dcterms_description  *literal   `xml:"dcterms:description,omitempty"`
	Dcterms_accessRights string     `xml:"dcterms:accessRights,omitempty"`
	Dcat_theme           string     `xml:"dcat:theme,omitempty"`
	Owl_versionInfo      string     `xml:"owl:versionInfo,omitempty"`
	Dcterms_modified     string     `xml:"dcterms:modified,omitempty"`
	Dcterms_language     string     `xml:"dcterms:language,omitempty"`
	Dcat_keyword         []literal  `xml:"dcat:keyword"`
	Dcat_distribution    []resource `xml:"dcat:distribution"`
}

type rdfDistribution struct {
	Attr_rdf_about      string    `xml:"rdf:about,attr"`
	Dcterms_title       literal   `xml:"dcterms:title"`
	Dcterms_description *literal  `xml:"dcterms:description,omitempty"`
	Dcterms_format      string    `xml:"dcterms:format,omitempty"`
	Dcterms_license     *resource `xml:"dcterms:license,omitempty"`
	Dcterms_issued      string    `xml:"dcterms:issued,omitempty"`
	Dcterms_modified    string    `xml:"dcterms:modified,omitempty"`
	Dcat_accessURL      *resource `xml:"dcat:accessURL,omitempty"`
	Dcat_downloadURL    *resource `xml:"dcat:downloadURL,omitempty"`
}

type rdfDataService struct {
	Attr_rdf_about       string    `xml:"rdf:about,attr"`
	Dcterms_title        literal   `xml:"dcterms:title"`
	Dcterms_description  *literal  `xml:"dcterms:description,omitempty"`
	Dcat_endpointURL     *resource `xml:"dcat:endpointURL,omitempty"`
	Dcterms_license      *resource `xml:"dcterms:license,omitempty"`
	Dcterms_accessRights string    `xml:"dcterms:accessRights,omitempty"`
	Dcterms_format       string    `xml:"dcterms:format,omitempty"`
}
