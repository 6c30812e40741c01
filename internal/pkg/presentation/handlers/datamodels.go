package handlers

import (
	"fmt"
	"net/http"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/materializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/organisations"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type dataModel struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	Organisation string `json:"organisation,omitempty"`
}

type newDataModel struct {
	Label        string `json:"label"`
	Description  string `json:"description"`
	Organisation string `json:"organisation"`
}

type declaredType struct {
	ID                string   `json:"id"`
	Label             string   `json:"label"`
	DomainType        string   `json:"domainType"`
	EnumerationValues []string `json:"enumerationValues,omitempty"`
}

func NewRetrieveOrganisationsHandler(logger zerolog.Logger, registry organisations.Registry) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, logger, http.StatusOK, registry.List())
	})
}

func NewRetrieveDataModelsHandler(logger zerolog.Logger, factory ClientFactory, folderID string) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-datamodels")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		models, err := clientFor(r, factory).DataModels(ctx, folderID)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		out := []dataModel{}
		for _, m := range models {
			out = append(out, dataModel(m))
		}

		writeData(w, log, http.StatusOK, out)
	})
}

// NewCreateDataModelHandler creates a data model owned by a known organisation and
// declares the data types of the catalogue template in it.
func NewCreateDataModelHandler(logger zerolog.Logger, factory ClientFactory, folderID string, registry organisations.Registry) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "create-datamodel")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		body := newDataModel{}
		if err = decodeBody(w, r, &body); err != nil {
			writeError(w, log, err, nil)
			return
		}

		if body.Label == "" {
			err = fmt.Errorf("%w: a data model needs a label", ErrBadRequestBody)
			writeError(w, log, err, nil)
			return
		}

		org, err := registry.Get(body.Organisation)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		client := clientFor(r, factory)

		model, err := client.CreateDataModel(ctx, folderID, mdm.NewDataModel{
			Label:        body.Label,
			Description:  body.Description,
			Organisation: org.Name,
		})
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		declared, err := materializer.ProvisionTypes(ctx, client, model.ID)
		if err != nil {
			writeError(w, log, err, dataModel(*model))
			return
		}

		log.Info().Str("model", model.ID).Int("types", len(declared)).Msg("created data model")

		writeJSON(w, log, http.StatusCreated, struct {
			Data          dataModel `json:"data"`
			DeclaredTypes []string  `json:"declaredTypes"`
		}{dataModel(*model), declared})
	})
}

func NewRetrieveDeclaredTypesHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-declared-types")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		modelID := chi.URLParam(r, "modelId")

		declared, err := clientFor(r, factory).Tree(modelID).ListDeclaredTypes(ctx)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		out := []declaredType{}
		for _, dt := range declared.All() {
			t := declaredType{ID: dt.ID, Label: dt.Label, DomainType: dt.DomainType}
			for _, ev := range dt.EnumerationValues {
				t.EnumerationValues = append(t.EnumerationValues, ev.Key)
			}
			out = append(out, t)
		}

		writeData(w, log, http.StatusOK, out)
	})
}
