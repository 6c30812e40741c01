// Package dcatrdf renders a stored catalogue as DCAT RDF/XML.
package dcatrdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
)

const ContentType string = "application/rdf+xml"

var ErrNotStored = errors.New("catalogue has not been stored")

// Encode writes the catalogue as DCAT RDF/XML. Every resource is named below baseURI
// by the id of the container it was loaded from, so only catalogues that have been
// loaded from a data model can be encoded.
func Encode(w io.Writer, catalogue domain.Catalogue, baseURI string) error {
	if catalogue.ID == "" {
		return ErrNotStored
	}

	doc := newRDF(catalogue, strings.TrimSuffix(baseURI, "/"))

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode catalogue %s: %w", catalogue.ID, err)
	}

	return nil
}

func newRDF(c domain.Catalogue, baseURI string) rdfRDF {
	doc := rdfRDF{
		Attr_rdf:     nsRdf,
		Attr_dcterms: nsDcterms,
		Attr_dcat:    nsDcat,
		Attr_foaf:    nsFoaf,
		Attr_vcard:   nsVcard,
		Attr_owl:     nsOwl,
	}

	doc.Catalog = rdfCatalog{
		Attr_rdf_about:      baseURI + "/catalogues/" + c.ID,
		Dcterms_title:       literal{XMLLang: c.Language, Value: c.Title},
		Dcterms_description: optionalLiteral(c.Language, c.Description),
		Dcterms_language:    c.Language,
		Dcterms_modified:    c.ModifiedDate,
		Foaf_homepage:       optionalResource(c.Homepage),
	}

	if c.Owner != "" {
		p := &publisher{}
		p.Agent.Foaf_name = c.Owner
		doc.Catalog.Dcterms_publisher = p
	}

	for i, d := range c.Datasets {
		datasetID := idOr(d.ID, "dataset", i)
		about := baseURI + "/datasets/" + datasetID
		doc.Catalog.Dcat_dataset = append(doc.Catalog.Dcat_dataset, resource{about})

		ds := rdfDataset{
			Attr_rdf_about:       about,
			Dcterms_title:        literal{XMLLang: d.Language, Value: d.Title},
			Dcterms_description:  optionalLiteral(d.Language, d.Description),
			Dcterms_accessRights: d.Access,
			Dcat_theme:           d.Category,
			Dcterms_modified:     d.ModifiedDate,
			Dcterms_language:     d.Language,
		}

		if d.Version != 0 {
			ds.Owl_versionInfo = strconv.FormatFloat(d.Version, 'f', -1, 64)
		}

		for _, tag := range d.Tags {
			ds.Dcat_keyword = append(ds.Dcat_keyword, literal{XMLLang: d.Language, Value: tag})
		}

		for j, dist := range d.Distributions {
			distAbout := baseURI + "/distributions/" + idOr(dist.ID, datasetID+"-distribution", j)
			ds.Dcat_distribution = append(ds.Dcat_distribution, resource{distAbout})

			doc.Distributions = append(doc.Distributions, rdfDistribution{
				Attr_rdf_about:      distAbout,
				Dcterms_title:       literal{Value: dist.Title},
				Dcterms_description: optionalLiteral("", dist.Description),
				Dcterms_format:      dist.Format,
				Dcterms_license:     optionalResource(dist.License),
				Dcterms_issued:      dist.Created,
				Dcterms_modified:    dist.Modified,
				Dcat_accessURL:      optionalResource(dist.AccessURL),
				Dcat_downloadURL:    optionalResource(dist.DownloadURL),
			})
		}

		doc.Datasets = append(doc.Datasets, ds)
	}

	for i, s := range c.DataServices {
		about := baseURI + "/dataservices/" + idOr(s.ID, "dataservice", i)
		doc.Catalog.Dcat_service = append(doc.Catalog.Dcat_service, resource{about})

		doc.DataServices = append(doc.DataServices, rdfDataService{
			Attr_rdf_about:       about,
			Dcterms_title:        literal{Value: s.Title},
			Dcterms_description:  optionalLiteral("", s.Description),
			Dcat_endpointURL:     optionalResource(s.EndpointURL),
			Dcterms_license:      optionalResource(s.License),
			Dcterms_accessRights: s.Access,
			Dcterms_format:       s.Format,
		})
	}

	return doc
}

func idOr(id, prefix string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, index)
}

func optionalLiteral(lang, value string) *literal {
	if value == "" {
		return nil
	}
	return &literal{XMLLang: lang, Value: value}
}

func optionalResource(uri string) *resource {
	if uri == "" {
		return nil
	}
	return &resource{uri}
}
