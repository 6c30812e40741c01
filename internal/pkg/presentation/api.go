package presentation

import (
	"compress/flate"
	"context"
	"net/http"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/organisations"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/presentation/handlers"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type API interface {
	Start(port string) error
}

type catalogueAPI struct {
	router chi.Router
	log    zerolog.Logger
}

// NewAPI serves the catalogue editor backend. Data models are created in and listed
// from the folder with id folderID.
func NewAPI(ctx context.Context, r chi.Router, factory handlers.ClientFactory, registry organisations.Registry, folderID string) API {
	return newCatalogueAPI(ctx, r, factory, registry, folderID)
}

func newCatalogueAPI(ctx context.Context, r chi.Router, factory handlers.ClientFactory, registry organisations.Registry, folderID string) *catalogueAPI {
	log := logging.GetFromContext(ctx)

	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		Debug:          false,
	}).Handler)

	// Enable gzip compression for our responses
	compressor := middleware.NewCompressor(flate.DefaultCompression, "application/json", "application/rdf+xml")
	r.Use(compressor.Handler)
	r.Use(otelchi.Middleware("api-dcat-ap-pt", otelchi.WithChiRoutes(r)))

	a := &catalogueAPI{
		router: r,
		log:    log,
	}

	a.addProbeHandlers(r)
	a.addCatalogueHandlers(r, factory, registry, folderID)

	return a
}

func (a *catalogueAPI) Start(port string) error {
	a.log.Info().Msgf("Starting api-dcat-ap-pt on port:%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *catalogueAPI) addCatalogueHandlers(r chi.Router, factory handlers.ClientFactory, registry organisations.Registry, folderID string) {
	log := a.log

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handlers.NewLoginHandler(log, factory))
		r.Post("/auth/logout", handlers.NewLogoutHandler(log, factory))

		r.Get("/organisations", handlers.NewRetrieveOrganisationsHandler(log, registry))

		r.Route("/datamodels", func(r chi.Router) {
			r.Get("/", handlers.NewRetrieveDataModelsHandler(log, factory, folderID))
			r.Post("/", handlers.NewCreateDataModelHandler(log, factory, folderID, registry))

			r.Route("/{modelId}", func(r chi.Router) {
				r.Get("/types", handlers.NewRetrieveDeclaredTypesHandler(log, factory))

				r.Get("/catalogues", handlers.NewRetrieveCataloguesHandler(log, factory))
				r.Post("/catalogues", handlers.NewSaveCatalogueHandler(log, factory))
				r.Get("/catalogues/{catalogueId}", handlers.NewRetrieveCatalogueHandler(log, factory))
				r.Get("/catalogues/{catalogueId}/dcat", handlers.NewRetrieveCatalogueRDFHandler(log, factory))
				r.Get("/catalogues/{catalogueId}/datasets", handlers.NewRetrieveDatasetsHandler(log, factory))

				r.Get("/datasets/{datasetId}/schema", handlers.NewRetrieveSchemaHandler(log, factory))
				r.Put("/datasets/{datasetId}/schema", handlers.NewSaveSchemaHandler(log, factory))

				r.Get("/directory", handlers.NewRetrieveDirectoryHandler(log, factory))
				r.Put("/directory", handlers.NewSaveDirectoryHandler(log, factory))
			})
		})
	})
}

func (a *catalogueAPI) addProbeHandlers(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
