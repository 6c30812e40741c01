package main

import (
	"context"
	"flag"
	"os"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/organisations"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/presentation"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
)

func openOrganisationsFile(ctx context.Context, path string) organisations.Registry {
	log := logging.GetFromContext(ctx)

	orgfile, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to open the organisations file %s", path)
	}
	defer orgfile.Close()

	registry, err := organisations.NewRegistry(orgfile)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to read organisations from %s", path)
	}

	log.Info().Msgf("loaded %d organisations from %s", len(registry.List()), path)

	return registry
}

var organisationsFileName string

func main() {
	serviceName := "api-dcat-ap-pt"
	serviceVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion)
	defer cleanup()

	log.Info().Msgf("Starting up %s ...", serviceName)

	flag.StringVar(&organisationsFileName, "organisations", env.GetVariableOrDefault(log, "ORGANISATIONS_FILE", "/opt/diwise/config/organisations.yaml"), "A yaml file with the organisations that may own data models")
	flag.Parse()

	registry := openOrganisationsFile(ctx, organisationsFileName)

	mdmURL := env.GetVariableOrDie(log, "MDM_API_URL", "data mapper API URL")
	folderID := env.GetVariableOrDie(log, "MDM_DATAMODELS_FOLDER_ID", "folder that holds the data models")
	apiKey := env.GetVariableOrDefault(log, "MDM_API_KEY", "")
	port := env.GetVariableOrDefault(log, "SERVICE_PORT", "8880")

	factory := func(sessionToken string) mdm.Client {
		return mdm.NewClient(mdmURL, mdm.WithSessionToken(sessionToken), mdm.WithAPIKey(apiKey))
	}

	r := chi.NewRouter()

	app := presentation.NewAPI(ctx, r, factory, registry, folderID)
	err := app.Start(port)
	if err != nil {
		log.Fatal().Msgf("failed to start router: %s", err.Error())
	}
}
