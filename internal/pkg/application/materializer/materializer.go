// Package materializer stores form state as data classes and data elements of a data
// model. Every container is looked up by label before it is created, so saving the
// same form twice touches the same remote nodes.
package materializer

import (
	"context"
	"fmt"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatap"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api-dcat-ap-pt/materializer")

// Result is the outcome of one save. It is filled in as far as the save got, also
// when an error is returned.
type Result struct {
	CatalogueID string `json:"catalogueId,omitempty"`
	// Containers maps the form path of every saved row to its container id.
	Containers   map[string]string `json:"containers"`
	Skipped      []SkippedField    `json:"skipped,omitempty"`
	MissingTypes []string          `json:"missingTypes,omitempty"`
}

// SkippedField is a data element that could not be written because no declared type
// could be resolved for it.
type SkippedField struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

func newResult() *Result {
	return &Result{Containers: map[string]string{}}
}

// SaveCatalogue stores a catalogue with its datasets, distributions, schemas and data services.
func SaveCatalogue(ctx context.Context, tree mdm.TreeClient, catalogue domain.Catalogue) (*Result, error) {
	var err error
	ctx, span := tracer.Start(ctx, "save-catalogue", trace.WithAttributes(attribute.String("model", tree.ModelID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := newResult()

	if err = catalogue.Validate(); err != nil {
		return result, err
	}

	w, err := newWalker(ctx, tree, result)
	if err != nil {
		return result, err
	}

	err = w.catalogue(ctx, catalogue)
	return result, err
}

// SaveSchema stores the schema rows of the dataset stored in container datasetID.
func SaveSchema(ctx context.Context, tree mdm.TreeClient, datasetID string, fields []domain.SchemaField) (*Result, error) {
	var err error
	ctx, span := tracer.Start(ctx, "save-schema", trace.WithAttributes(attribute.String("dataset", datasetID)))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := newResult()

	if err = domain.ValidateSchema(fields); err != nil {
		return result, err
	}

	dataset, err := tree.Container(ctx, datasetID)
	if err != nil {
		return result, fmt.Errorf("failed to retrieve dataset %s: %w", datasetID, err)
	}

	title, ok := dcatap.StripPrefix(dataset.Label, dcatap.KindDataset)
	if !ok {
		err = fmt.Errorf("container %s (%s) is not a dataset: %w", datasetID, dataset.Label, mdm.ErrNotFound)
		return result, err
	}

	w, err := newWalker(ctx, tree, result)
	if err != nil {
		return result, err
	}

	err = w.schema(ctx, domain.Path{}, dataset.ID, title, fields)
	return result, err
}

// SaveDirectory stores the standalone agents and the legal resources of a data model.
func SaveDirectory(ctx context.Context, tree mdm.TreeClient, directory domain.Directory) (*Result, error) {
	var err error
	ctx, span := tracer.Start(ctx, "save-directory", trace.WithAttributes(attribute.String("model", tree.ModelID())))
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	result := newResult()

	if err = directory.Validate(); err != nil {
		return result, err
	}

	w, err := newWalker(ctx, tree, result)
	if err != nil {
		return result, err
	}

	err = w.directory(ctx, directory)
	return result, err
}

func newWalker(ctx context.Context, tree mdm.TreeClient, result *Result) (*walker, error) {
	types, err := tree.ListDeclaredTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list declared types: %w", err)
	}

	log := logging.GetFromContext(ctx)

	result.MissingTypes = dcatap.MissingTypes(types.Has)
	if len(result.MissingTypes) > 0 {
		log.Warn().Strs("types", result.MissingTypes).Msg("data model is missing declared types")
	}

	return &walker{
		tree:     tree,
		types:    types,
		log:      log,
		result:   result,
		children: map[string][]mdm.Container{},
	}, nil
}
