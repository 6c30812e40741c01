// Package dematerializer rebuilds form state from the data classes and data elements
// of a data model. Children are told apart by their label prefix and sorted by index,
// and children that follow no known convention are ignored.
package dematerializer

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatap"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slices"
)

var tracer = otel.Tracer("api-dcat-ap-pt/dematerializer")

var ErrWrongKind = errors.New("container is of another kind")

// Summary identifies a catalogue or dataset without loading its children.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LoadCatalogue reads the catalogue stored in container catalogueID. A catalogue that
// does not exist yet is returned empty.
func LoadCatalogue(ctx context.Context, tree mdm.TreeClient, catalogueID string) (*domain.Catalogue, error) {
	var err error
	ctx, span := tracer.Start(ctx, "load-catalogue", trace.WithAttributes(attribute.String("catalogue", catalogueID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	container, err := tree.Container(ctx, catalogueID)
	if err != nil {
		if errors.Is(err, mdm.ErrNotFound) {
			c := domain.NewCatalogue()
			err = nil
			return &c, nil
		}
		return nil, fmt.Errorf("failed to retrieve catalogue %s: %w", catalogueID, err)
	}

	var c domain.Catalogue
	c, err = loadCatalogue(ctx, tree, *container)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func loadCatalogue(ctx context.Context, tree mdm.TreeClient, container mdm.Container) (domain.Catalogue, error) {
	title, ok := dcatap.StripPrefix(container.Label, dcatap.KindCatalogue)
	if !ok {
		return domain.Catalogue{}, fmt.Errorf("%q is not a catalogue: %w", container.Label, ErrWrongKind)
	}

	c := domain.NewCatalogue()
	c.ID = container.ID

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetCatalogueValue(&c, l.Label, l.Value)
	})
	if err != nil {
		return c, err
	}
	c.Title = title

	children, err := listChildren(ctx, tree, container.ID)
	if err != nil {
		return c, err
	}

	for _, child := range children {
		switch kind, _ := dcatap.Classify(child.Label); kind {
		case dcatap.KindDataset:
			d, err := loadDataset(ctx, tree, child)
			if err != nil {
				return c, err
			}
			c.Datasets = append(c.Datasets, d)
		case dcatap.KindDataService:
			s, err := loadDataService(ctx, tree, child)
			if err != nil {
				return c, err
			}
			c.DataServices = append(c.DataServices, s)
		}
	}

	return c, nil
}

func loadDataset(ctx context.Context, tree mdm.TreeClient, container mdm.Container) (domain.Dataset, error) {
	title, _ := dcatap.StripPrefix(container.Label, dcatap.KindDataset)

	d := domain.NewDataset()
	d.ID = container.ID

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetDatasetValue(&d, l.Label, l.Value)
	})
	if err != nil {
		return d, err
	}
	d.Title = title

	children, err := listChildren(ctx, tree, container.ID)
	if err != nil {
		return d, err
	}

	for _, child := range children {
		if child.Label == dcatap.SchemaLabel(title) {
			d.Schema, err = loadSchemaFields(ctx, tree, child.ID)
			if err != nil {
				return d, err
			}
			continue
		}

		if kind, _ := dcatap.Classify(child.Label); kind != dcatap.KindDistribution {
			continue
		}

		dist, err := loadDistribution(ctx, tree, child, title)
		if err != nil {
			return d, err
		}
		d.Distributions = append(d.Distributions, dist)
	}

	return d, nil
}

func loadDistribution(ctx context.Context, tree mdm.TreeClient, container mdm.Container, datasetTitle string) (domain.Distribution, error) {
	dist := domain.Distribution{ID: container.ID}

	if format, ok := dcatap.DistributionFormat(container.Label, datasetTitle); ok {
		dist.Format = format
	}

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetDistributionValue(&dist, l.Label, l.Value)
	})

	return dist, err
}

func loadDataService(ctx context.Context, tree mdm.TreeClient, container mdm.Container) (domain.DataService, error) {
	title, _ := dcatap.StripPrefix(container.Label, dcatap.KindDataService)

	s := domain.DataService{ID: container.ID}

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetDataServiceValue(&s, l.Label, l.Value)
	})
	s.Title = title

	return s, err
}

// LoadSchema reads the schema rows of the dataset stored in container datasetID. A
// dataset without a stored schema gets one empty row.
func LoadSchema(ctx context.Context, tree mdm.TreeClient, datasetID string) ([]domain.SchemaField, error) {
	var err error
	ctx, span := tracer.Start(ctx, "load-schema", trace.WithAttributes(attribute.String("dataset", datasetID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	dataset, err := tree.Container(ctx, datasetID)
	if err != nil {
		if errors.Is(err, mdm.ErrNotFound) {
			err = nil
			return defaultSchema(), nil
		}
		return nil, fmt.Errorf("failed to retrieve dataset %s: %w", datasetID, err)
	}

	title, ok := dcatap.StripPrefix(dataset.Label, dcatap.KindDataset)
	if !ok {
		err = fmt.Errorf("%q is not a dataset: %w", dataset.Label, ErrWrongKind)
		return nil, err
	}

	children, err := listChildren(ctx, tree, dataset.ID)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		if child.Label == dcatap.SchemaLabel(title) {
			var fields []domain.SchemaField
			fields, err = loadSchemaFields(ctx, tree, child.ID)
			return fields, err
		}
	}

	return defaultSchema(), nil
}

func loadSchemaFields(ctx context.Context, tree mdm.TreeClient, schemaID string) ([]domain.SchemaField, error) {
	fields := []domain.SchemaField{}

	err := eachLeaf(ctx, tree, schemaID, func(l mdm.Leaf) {
		fields = append(fields, domain.SchemaField{
			ID:          l.ID,
			Label:       l.Label,
			Description: l.Value,
			DataType:    domain.DataTypeRef{ID: l.DataType.ID, Label: l.DataType.Label},
		})
	})
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return defaultSchema(), nil
	}

	return fields, nil
}

func defaultSchema() []domain.SchemaField {
	return []domain.SchemaField{{}}
}

// LoadDirectory reads the standalone agents and legal resources at the root of the data model.
func LoadDirectory(ctx context.Context, tree mdm.TreeClient) (*domain.Directory, error) {
	var err error
	ctx, span := tracer.Start(ctx, "load-directory", trace.WithAttributes(attribute.String("model", tree.ModelID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	d := domain.NewDirectory()

	roots, err := listChildren(ctx, tree, "")
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		switch kind, _ := dcatap.Classify(root.Label); kind {
		case dcatap.KindAgent:
			var a domain.Agent
			if a, err = loadAgent(ctx, tree, root); err != nil {
				return nil, err
			}
			d.Agents = append(d.Agents, a)
		case dcatap.KindLegalResource:
			var lr domain.LegalResource
			if lr, err = loadLegalResource(ctx, tree, root); err != nil {
				return nil, err
			}
			d.LegalResources = append(d.LegalResources, lr)
		}
	}

	return &d, nil
}

func loadAgent(ctx context.Context, tree mdm.TreeClient, container mdm.Container) (domain.Agent, error) {
	name, _ := dcatap.StripPrefix(container.Label, dcatap.KindAgent)

	a := domain.NewAgent()
	a.ContainerID = container.ID
	a.Name = name

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetAgentValue(&a, l.Label, l.Value)
	})
	if err != nil {
		return a, err
	}

	children, err := listChildren(ctx, tree, container.ID)
	if err != nil {
		return a, err
	}

	for _, child := range children {
		if child.Label != dcatap.ContactLabel {
			continue
		}

		err = eachLeaf(ctx, tree, child.ID, func(l mdm.Leaf) {
			a.Contacts = dcatap.SetContactValue(a.Contacts, l.Label, l.Value)
		})
		if err != nil {
			return a, err
		}
	}

	// emptied elements are left behind when contacts are removed
	contacts := []domain.Contact{}
	for _, c := range a.Contacts {
		if !c.IsEmpty() {
			contacts = append(contacts, c)
		}
	}
	a.Contacts = contacts

	return a, nil
}

func loadLegalResource(ctx context.Context, tree mdm.TreeClient, container mdm.Container) (domain.LegalResource, error) {
	lr := domain.NewLegalResource()
	lr.ID = container.ID

	err := eachLeaf(ctx, tree, container.ID, func(l mdm.Leaf) {
		dcatap.SetLegalResourceValue(&lr, l.Label, l.Value)
	})
	if err != nil {
		return lr, err
	}

	children, err := listChildren(ctx, tree, container.ID)
	if err != nil {
		return lr, err
	}

	for _, child := range children {
		if kind, _ := dcatap.Classify(child.Label); kind != dcatap.KindAgent {
			continue
		}

		a, err := loadAgent(ctx, tree, child)
		if err != nil {
			return lr, err
		}
		lr.Agents = append(lr.Agents, a)
	}

	return lr, nil
}

// ListCatalogues returns the catalogues stored at the root of the data model.
func ListCatalogues(ctx context.Context, tree mdm.TreeClient) ([]Summary, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-catalogues", trace.WithAttributes(attribute.String("model", tree.ModelID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var summaries []Summary
	summaries, err = summariesOf(ctx, tree, "", dcatap.KindCatalogue)
	return summaries, err
}

// ListDatasets returns the datasets of a catalogue.
func ListDatasets(ctx context.Context, tree mdm.TreeClient, catalogueID string) ([]Summary, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-datasets", trace.WithAttributes(attribute.String("catalogue", catalogueID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var summaries []Summary
	summaries, err = summariesOf(ctx, tree, catalogueID, dcatap.KindDataset)
	return summaries, err
}

func summariesOf(ctx context.Context, tree mdm.TreeClient, parentID string, kind dcatap.Kind) ([]Summary, error) {
	children, err := listChildren(ctx, tree, parentID)
	if err != nil {
		return nil, err
	}

	summaries := []Summary{}
	for _, child := range children {
		if title, ok := dcatap.StripPrefix(child.Label, kind); ok {
			summaries = append(summaries, Summary{ID: child.ID, Title: title, Description: child.Description})
		}
	}

	return summaries, nil
}

func listChildren(ctx context.Context, tree mdm.TreeClient, parentID string) ([]mdm.Container, error) {
	children, err := tree.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %q: %w", parentID, err)
	}

	slices.SortStableFunc(children, func(a, b mdm.Container) bool {
		return a.Index < b.Index
	})

	return children, nil
}

// eachLeaf calls apply for every data element of a container in index order.
func eachLeaf(ctx context.Context, tree mdm.TreeClient, containerID string, apply func(mdm.Leaf)) error {
	leaves, err := tree.ListLeaves(ctx, containerID)
	if err != nil {
		return fmt.Errorf("failed to list data elements of %s: %w", containerID, err)
	}

	slices.SortStableFunc(leaves, func(a, b mdm.Leaf) bool {
		return a.Index < b.Index
	})

	for _, l := range leaves {
		apply(l)
	}

	return nil
}
