package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dematerializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/materializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/organisations"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm/mdmtest"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestLoginReturnsSessionToken(t *testing.T) {
	is, r, ts, _ := setupTest(t, mdmtest.WithCredentials("editor@cm.pt", "segredo"))
	r.Post("/login", NewLoginHandler(zerolog.Logger{}, factory))

	resp, body := newRequest(is, ts, http.MethodPost, "/login", "", `{"username":"editor@cm.pt","password":"segredo"}`)
	is.Equal(resp.StatusCode, http.StatusOK)

	session := struct {
		Data mdm.Session `json:"data"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &session))
	is.Equal(session.Data.User.EmailAddress, "editor@cm.pt")
	is.True(session.Data.Token != "")
}

func TestLoginWithWrongPasswordIsUnauthorized(t *testing.T) {
	is, r, ts, _ := setupTest(t, mdmtest.WithCredentials("editor@cm.pt", "segredo"))
	r.Post("/login", NewLoginHandler(zerolog.Logger{}, factory))

	resp, _ := newRequest(is, ts, http.MethodPost, "/login", "", `{"username":"editor@cm.pt","password":"errada"}`)
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestRequestWithoutSessionIsUnauthorized(t *testing.T) {
	is, r, ts, _ := setupTest(t, mdmtest.WithCredentials("editor@cm.pt", "segredo"))
	r.Get("/datamodels", NewRetrieveDataModelsHandler(zerolog.Logger{}, factory, mdmtest.DefaultFolderID))

	resp, _ := newRequest(is, ts, http.MethodGet, "/datamodels", "", "")
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func TestSessionTokenIsForwarded(t *testing.T) {
	is, r, ts, srv := setupTest(t, mdmtest.WithCredentials("editor@cm.pt", "segredo"))
	r.Get("/datamodels", NewRetrieveDataModelsHandler(zerolog.Logger{}, factory, mdmtest.DefaultFolderID))

	srv.AddDataModel(mdmtest.DefaultFolderID, "Ambiente")

	session, err := mdm.NewClient(srv.URL()).Login(context.Background(), "editor@cm.pt", "segredo")
	is.NoErr(err)

	resp, body := newRequest(is, ts, http.MethodGet, "/datamodels", "Bearer "+session.Token, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"label":"Ambiente"`))
}

func TestCreateDataModelDeclaresTemplateTypes(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	r.Post("/datamodels", NewCreateDataModelHandler(zerolog.Logger{}, factory, mdmtest.DefaultFolderID, testRegistry(is)))
	r.Get("/datamodels/{modelId}/types", NewRetrieveDeclaredTypesHandler(zerolog.Logger{}, factory))

	resp, body := newRequest(is, ts, http.MethodPost, "/datamodels", "", `{"label":"Ambiente","organisation":"cm-lisboa"}`)
	is.Equal(resp.StatusCode, http.StatusCreated)

	created := struct {
		Data          dataModel `json:"data"`
		DeclaredTypes []string  `json:"declaredTypes"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &created))
	is.Equal(created.Data.Organisation, "Câmara Municipal de Lisboa")
	is.True(len(created.DeclaredTypes) > 0)

	resp, body = newRequest(is, ts, http.MethodGet, "/datamodels/"+created.Data.ID+"/types", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"label":"String"`))

	is.Equal(len(srv.Containers(created.Data.ID)), 0)
}

func TestCreateDataModelForUnknownOrganisationIsRejected(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	r.Post("/datamodels", NewCreateDataModelHandler(zerolog.Logger{}, factory, mdmtest.DefaultFolderID, testRegistry(is)))

	resp, _ := newRequest(is, ts, http.MethodPost, "/datamodels", "", `{"label":"Ambiente","organisation":"cm-faro"}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
	is.Equal(srv.Writes(), 0)
}

func TestCreateDataModelWithTakenLabelIsConflict(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	r.Post("/datamodels", NewCreateDataModelHandler(zerolog.Logger{}, factory, mdmtest.DefaultFolderID, testRegistry(is)))

	srv.AddDataModel(mdmtest.DefaultFolderID, "Ambiente")

	resp, _ := newRequest(is, ts, http.MethodPost, "/datamodels", "", `{"label":"Ambiente","organisation":"cm-lisboa"}`)
	is.Equal(resp.StatusCode, http.StatusConflict)
}

func TestSaveCatalogueRespondsWithStoredCatalogue(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	resp, body := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	is.Equal(resp.StatusCode, http.StatusCreated)

	saved := savedCatalogue{}
	is.NoErr(json.Unmarshal([]byte(body), &saved))
	is.Equal(saved.Data.Title, "Ambiente")
	is.Equal(saved.Data.ID, saved.Result.CatalogueID)
	is.Equal(len(saved.Data.Datasets), 1)
	is.Equal(saved.Data.Datasets[0].ID, saved.Result.Containers["datasets.0"])
	is.Equal(saved.Data.Datasets[0].Tags, []string{"população", "censos"})

	resp, body = newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/catalogues", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, saved.Result.CatalogueID))

	resp, body = newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/catalogues/"+saved.Result.CatalogueID+"/datasets", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"title":"Pop2023"`))
}

func TestSavingTheSameCatalogueTwiceWritesNothing(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	resp, _ := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	is.Equal(resp.StatusCode, http.StatusCreated)

	writes := srv.Writes()

	resp, _ = newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	is.Equal(resp.StatusCode, http.StatusCreated)
	is.Equal(srv.Writes(), writes)
}

func TestSaveCatalogueWithoutTitleIsBadRequest(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	resp, _ := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", `{"title":""}`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", `{"title":`)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestOversizedBodyIsBadRequest(t *testing.T) {
	is := is.New(t)

	body := `{"title":"` + strings.Repeat("a", int(maxBodySize)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/catalogues", strings.NewReader(body))
	w := httptest.NewRecorder()

	catalogue := domain.NewCatalogue()
	err := decodeBody(w, req, &catalogue)
	is.True(errors.Is(err, ErrBadRequestBody))
	is.Equal(statusFor(err), http.StatusBadRequest)
	is.Equal(catalogue.Title, "")

	req = httptest.NewRequest(http.MethodPost, "/catalogues", strings.NewReader(`{"title":"Ambiente"}`))
	is.NoErr(decodeBody(w, req, &catalogue))
	is.Equal(catalogue.Title, "Ambiente")
}

func TestErrorsAreMappedToStatusCodes(t *testing.T) {
	is := is.New(t)

	cases := map[error]int{
		domain.ErrMissingTitle:                 http.StatusBadRequest,
		ErrBadRequestBody:                      http.StatusBadRequest,
		organisations.ErrNoSuchOrganisation:    http.StatusBadRequest,
		mdm.ErrInvalidRequest:                  http.StatusBadRequest,
		dematerializer.ErrWrongKind:            http.StatusNotFound,
		mdm.ErrNotFound:                        http.StatusNotFound,
		domain.ErrDuplicateLabel:               http.StatusConflict,
		mdm.ErrConflict:                        http.StatusConflict,
		mdm.ErrUnauthorized:                    http.StatusUnauthorized,
		mdm.ErrServer:                          http.StatusBadGateway,
		errors.New("connection reset by peer"): http.StatusBadGateway,
	}

	for err, status := range cases {
		is.Equal(statusFor(fmt.Errorf("saving catalogue: %w", err)), status) // wrong status for error
	}
}

func TestSaveCatalogueWithDuplicateDatasetsIsConflict(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	writes := srv.Writes()

	resp, _ := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", `{"title":"Ambiente","datasets":[{"title":"A"},{"title":"A"}]}`)
	is.Equal(resp.StatusCode, http.StatusConflict)
	is.Equal(srv.Writes(), writes)
}

func TestPartialSaveReportsResult(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	srv.FailWhen(func(method, path string) bool {
		return method == http.MethodPost && strings.HasSuffix(path, "/dataElements")
	})

	resp, body := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	is.Equal(resp.StatusCode, http.StatusBadGateway)

	failed := struct {
		Error  string `json:"error"`
		Result struct {
			CatalogueID string `json:"catalogueId"`
		} `json:"result"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &failed))
	is.True(failed.Error != "")
	is.True(failed.Result.CatalogueID != "")
}

func TestRetrieveCatalogueAsRDF(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	_, body := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	saved := savedCatalogue{}
	is.NoErr(json.Unmarshal([]byte(body), &saved))

	resp, body := newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/catalogues/"+saved.Result.CatalogueID+"/dcat", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/rdf+xml")
	is.True(strings.Contains(body, "/catalogues/"+saved.Result.CatalogueID+`"`))
	is.True(strings.Contains(body, "<dcat:keyword"))

	resp, _ = newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/catalogues/nope/dcat", "", "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestMissingCatalogueIsEmpty(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	resp, body := newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/catalogues/nope", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"datasets":[]`))
}

func TestUnknownDataModelIsNotFound(t *testing.T) {
	is, r, ts, _ := setupTest(t)
	addCatalogueRoutes(r)

	resp, _ := newRequest(is, ts, http.MethodGet, "/datamodels/nope/catalogues", "", "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestSaveAndRetrieveSchema(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	_, body := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	saved := savedCatalogue{}
	is.NoErr(json.Unmarshal([]byte(body), &saved))

	schemaPath := "/datamodels/" + modelID + "/datasets/" + saved.Result.Containers["datasets.0"] + "/schema"

	resp, _ := newRequest(is, ts, http.MethodPut, schemaPath, "", `[{"label":"zona","dataType":{"label":"String"}},{"label":"ano","dataType":{"label":"Decimal"}}]`)
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, body = newRequest(is, ts, http.MethodGet, schemaPath, "", "")
	is.Equal(resp.StatusCode, http.StatusOK)

	fields := struct {
		Data []domain.SchemaField `json:"data"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &fields))
	is.Equal(len(fields.Data), 2)
	is.Equal(fields.Data[0].Label, "zona")
	is.Equal(fields.Data[1].DataType.Label, "Decimal")
}

func TestSchemaOfACatalogueIsNotFound(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	_, body := newRequest(is, ts, http.MethodPost, "/datamodels/"+modelID+"/catalogues", "", catalogueJSON)
	saved := savedCatalogue{}
	is.NoErr(json.Unmarshal([]byte(body), &saved))

	resp, _ := newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/datasets/"+saved.Result.CatalogueID+"/schema", "", "")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestSaveAndRetrieveDirectory(t *testing.T) {
	is, r, ts, srv := setupTest(t)
	modelID := provisionedModel(is, srv)
	addCatalogueRoutes(r)

	resp, _ := newRequest(is, ts, http.MethodPut, "/datamodels/"+modelID+"/directory", "", `{"agents":[{"name":"INE","contacts":[{"mail":"geral@ine.pt"}]}]}`)
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, body := newRequest(is, ts, http.MethodGet, "/datamodels/"+modelID+"/directory", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)

	directory := struct {
		Data domain.Directory `json:"data"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &directory))
	is.Equal(len(directory.Data.Agents), 1)
	is.Equal(directory.Data.Agents[0].Name, "INE")
	is.Equal(directory.Data.Agents[0].Contacts[0].Mail, "geral@ine.pt")
}

func TestRetrieveOrganisations(t *testing.T) {
	is, r, ts, _ := setupTest(t)
	r.Get("/organisations", NewRetrieveOrganisationsHandler(zerolog.Logger{}, testRegistry(is)))

	resp, body := newRequest(is, ts, http.MethodGet, "/organisations", "", "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(body, `{"data":[{"id":"cm-lisboa","name":"Câmara Municipal de Lisboa"},{"id":"cm-porto","name":"Câmara Municipal do Porto"}]}`)
}

type savedCatalogue struct {
	Data   domain.Catalogue `json:"data"`
	Result struct {
		CatalogueID string            `json:"catalogueId"`
		Containers  map[string]string `json:"containers"`
	} `json:"result"`
}

var mdmURL string

func factory(token string) mdm.Client {
	return mdm.NewClient(mdmURL, mdm.WithSessionToken(token))
}

func setupTest(t *testing.T, options ...mdmtest.Option) (*is.I, *chi.Mux, *httptest.Server, *mdmtest.Server) {
	is := is.New(t)

	srv := mdmtest.NewServer(options...)
	t.Cleanup(srv.Close)
	mdmURL = srv.URL()

	r := chi.NewRouter()
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return is, r, ts, srv
}

func addCatalogueRoutes(r chi.Router) {
	log := zerolog.Logger{}

	r.Get("/datamodels/{modelId}/catalogues", NewRetrieveCataloguesHandler(log, factory))
	r.Post("/datamodels/{modelId}/catalogues", NewSaveCatalogueHandler(log, factory))
	r.Get("/datamodels/{modelId}/catalogues/{catalogueId}", NewRetrieveCatalogueHandler(log, factory))
	r.Get("/datamodels/{modelId}/catalogues/{catalogueId}/dcat", NewRetrieveCatalogueRDFHandler(log, factory))
	r.Get("/datamodels/{modelId}/catalogues/{catalogueId}/datasets", NewRetrieveDatasetsHandler(log, factory))
	r.Get("/datamodels/{modelId}/datasets/{datasetId}/schema", NewRetrieveSchemaHandler(log, factory))
	r.Put("/datamodels/{modelId}/datasets/{datasetId}/schema", NewSaveSchemaHandler(log, factory))
	r.Get("/datamodels/{modelId}/directory", NewRetrieveDirectoryHandler(log, factory))
	r.Put("/datamodels/{modelId}/directory", NewSaveDirectoryHandler(log, factory))
}

func provisionedModel(is *is.I, srv *mdmtest.Server) string {
	modelID := srv.AddDataModel(mdmtest.DefaultFolderID, "Ambiente")

	_, err := materializer.ProvisionTypes(context.Background(), mdm.NewClient(srv.URL()), modelID)
	is.NoErr(err)

	return modelID
}

func testRegistry(is *is.I) organisations.Registry {
	registry, err := organisations.NewRegistry(strings.NewReader(`organisations:
  - id: cm-porto
    name: Câmara Municipal do Porto
  - id: cm-lisboa
    name: Câmara Municipal de Lisboa
`))
	is.NoErr(err)
	return registry
}

func newRequest(is *is.I, ts *httptest.Server, method, path, authorization, body string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	is.NoErr(err)

	if authorization != "" {
		req.Header.Add("Authorization", authorization)
	}
	if body != "" {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	return resp, string(respBody)
}

const catalogueJSON string = `{
	"title": "Ambiente",
	"description": "Dados ambientais do município",
	"language": "pt",
	"datasets": [{
		"title": "Pop2023",
		"access": "public",
		"version": 2,
		"tags": ["população", "censos"],
		"distributions": [{"title": "CSV", "format": "csv", "accessURL": "https://dados.example.pt/pop2023.csv"}],
		"schema": [{"label": "ano", "dataType": {"label": "Decimal"}}]
	}],
	"dataservices": []
}`
