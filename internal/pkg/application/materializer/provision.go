package materializer

import (
	"context"
	"fmt"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatap"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

// ProvisionTypes declares every type of the DCAT-AP-PT template that the data model
// does not declare yet, and returns the labels of the types it declared.
func ProvisionTypes(ctx context.Context, client mdm.Client, modelID string) ([]string, error) {
	var err error
	ctx, span := tracer.Start(ctx, "provision-types")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	tmpl, err := dcatap.Template()
	if err != nil {
		return nil, err
	}

	declared, err := client.Tree(modelID).ListDeclaredTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list declared types: %w", err)
	}

	log := logging.GetFromContext(ctx)
	added := []string{}

	for _, t := range tmpl.DataTypes {
		if declared.Has(t.Label) {
			continue
		}

		decl := mdm.TypeDeclaration{Label: t.Label}
		for _, ev := range t.EnumerationValues {
			decl.EnumerationValues = append(decl.EnumerationValues, mdm.EnumerationValue{Key: ev.Key, Value: ev.Value})
		}

		if _, err = client.DeclareType(ctx, modelID, decl); err != nil {
			return added, fmt.Errorf("failed to declare %s: %w", t.Label, err)
		}

		log.Info().Str("model", modelID).Str("type", t.Label).Msg("declared data type")
		added = append(added, t.Label)
	}

	return added, nil
}
