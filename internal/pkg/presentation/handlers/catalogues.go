package handlers

import (
	"bytes"
	"net/http"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatrdf"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dematerializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/materializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type savedResponse struct {
	Data   any                  `json:"data"`
	Result *materializer.Result `json:"result"`
}

func NewRetrieveCataloguesHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-catalogues")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		catalogues, err := dematerializer.ListCatalogues(ctx, tree)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		writeData(w, log, http.StatusOK, catalogues)
	})
}

func NewRetrieveCatalogueHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-catalogue")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		catalogue, err := dematerializer.LoadCatalogue(ctx, tree, chi.URLParam(r, "catalogueId"))
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		writeData(w, log, http.StatusOK, catalogue)
	})
}

// NewRetrieveCatalogueRDFHandler serves a stored catalogue as DCAT RDF/XML.
func NewRetrieveCatalogueRDFHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-catalogue-rdf")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		modelID := chi.URLParam(r, "modelId")
		tree := clientFor(r, factory).Tree(modelID)

		catalogue, err := dematerializer.LoadCatalogue(ctx, tree, chi.URLParam(r, "catalogueId"))
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		if catalogue.ID == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}

		buf := &bytes.Buffer{}
		if err = dcatrdf.Encode(buf, *catalogue, scheme+"://"+r.Host+"/api/datamodels/"+modelID); err != nil {
			log.Error().Err(err).Msg("failed to encode catalogue")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", dcatrdf.ContentType)
		w.Write(buf.Bytes())
	})
}

func NewRetrieveDatasetsHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-datasets")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		datasets, err := dematerializer.ListDatasets(ctx, tree, chi.URLParam(r, "catalogueId"))
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		writeData(w, log, http.StatusOK, datasets)
	})
}

// NewSaveCatalogueHandler stores the posted catalogue and responds with the catalogue
// as it reads back from the data model.
func NewSaveCatalogueHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "save-catalogue")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		catalogue := domain.NewCatalogue()
		if err = decodeBody(w, r, &catalogue); err != nil {
			writeError(w, log, err, nil)
			return
		}

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		result, err := materializer.SaveCatalogue(ctx, tree, catalogue)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		saved, err := dematerializer.LoadCatalogue(ctx, tree, result.CatalogueID)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		writeJSON(w, log, http.StatusCreated, savedResponse{Data: saved, Result: result})
	})
}

func NewRetrieveSchemaHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-schema")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		fields, err := dematerializer.LoadSchema(ctx, tree, chi.URLParam(r, "datasetId"))
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		writeData(w, log, http.StatusOK, fields)
	})
}

func NewSaveSchemaHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "save-schema")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		fields := []domain.SchemaField{}
		if err = decodeBody(w, r, &fields); err != nil {
			writeError(w, log, err, nil)
			return
		}

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))
		datasetID := chi.URLParam(r, "datasetId")

		result, err := materializer.SaveSchema(ctx, tree, datasetID, fields)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		saved, err := dematerializer.LoadSchema(ctx, tree, datasetID)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		writeJSON(w, log, http.StatusOK, savedResponse{Data: saved, Result: result})
	})
}

func NewRetrieveDirectoryHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "retrieve-directory")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		directory, err := dematerializer.LoadDirectory(ctx, tree)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		writeData(w, log, http.StatusOK, directory)
	})
}

func NewSaveDirectoryHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "save-directory")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		directory := domain.NewDirectory()
		if err = decodeBody(w, r, &directory); err != nil {
			writeError(w, log, err, nil)
			return
		}

		tree := clientFor(r, factory).Tree(chi.URLParam(r, "modelId"))

		result, err := materializer.SaveDirectory(ctx, tree, directory)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		saved, err := dematerializer.LoadDirectory(ctx, tree)
		if err != nil {
			writeError(w, log, err, result)
			return
		}

		writeJSON(w, log, http.StatusOK, savedResponse{Data: saved, Result: result})
	})
}
