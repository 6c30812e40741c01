package dematerializer

import (
	"context"
	"errors"
	"testing"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dcatap"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/materializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm/mdmtest"
	"github.com/matryer/is"
)

func TestCatalogueRoundTrip(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	saved := testCatalogue()

	result, err := materializer.SaveCatalogue(ctx, tree, saved)
	is.NoErr(err)

	loaded, err := LoadCatalogue(ctx, tree, result.CatalogueID)
	is.NoErr(err)

	is.Equal(loaded.ID, result.CatalogueID)
	is.Equal(loaded.Datasets[0].ID, result.Containers["datasets.0"])
	is.Equal(loaded.Datasets[0].Distributions[1].ID, result.Containers["datasets.0.distributions.1"])

	is.Equal(withoutIDs(*loaded), saved)
}

func TestCatalogueWithoutDatasetsLoadsWithoutDatasets(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	c := domain.NewCatalogue()
	c.Title = "Abertos"

	result, err := materializer.SaveCatalogue(ctx, tree, c)
	is.NoErr(err)

	loaded, err := LoadCatalogue(ctx, tree, result.CatalogueID)
	is.NoErr(err)
	is.Equal(loaded.Title, "Abertos")
	is.Equal(len(loaded.Datasets), 0)
	is.True(loaded.Datasets != nil) // an empty list, not a default row
}

func TestDatasetWithoutSchemaLoadsOneEmptyRow(t *testing.T) {
	is, srv, tree := testSetup(t)
	ctx := context.Background()

	c := client(srv).Tree(tree.ModelID())
	catalogue, err := c.CreateContainer(ctx, "", mdm.NewContainer{Label: "Catálogo - Manual"})
	is.NoErr(err)
	dataset, err := c.CreateContainer(ctx, catalogue.ID, mdm.NewContainer{Label: "Dataset - Sem esquema"})
	is.NoErr(err)

	loaded, err := LoadCatalogue(ctx, tree, catalogue.ID)
	is.NoErr(err)
	is.Equal(len(loaded.Datasets), 1)
	is.Equal(loaded.Datasets[0].Title, "Sem esquema")
	is.Equal(loaded.Datasets[0].Schema, []domain.SchemaField{{}})

	fields, err := LoadSchema(ctx, tree, dataset.ID)
	is.NoErr(err)
	is.Equal(len(fields), 1)
	is.True(fields[0].IsEmpty())
}

func TestMissingCatalogueIsNew(t *testing.T) {
	is, _, tree := testSetup(t)

	loaded, err := LoadCatalogue(context.Background(), tree, "no-such-catalogue")
	is.NoErr(err)
	is.Equal(*loaded, domain.NewCatalogue())
}

func TestContainerOfAnotherKindIsRejected(t *testing.T) {
	is, srv, tree := testSetup(t)
	ctx := context.Background()

	agent, err := client(srv).Tree(tree.ModelID()).CreateContainer(ctx, "", mdm.NewContainer{Label: "Agente - INE"})
	is.NoErr(err)

	_, err = LoadCatalogue(ctx, tree, agent.ID)
	is.True(errors.Is(err, ErrWrongKind))

	_, err = LoadSchema(ctx, tree, agent.ID)
	is.True(errors.Is(err, ErrWrongKind))
}

func TestUnknownChildrenAreIgnored(t *testing.T) {
	is, srv, tree := testSetup(t)
	ctx := context.Background()

	result, err := materializer.SaveCatalogue(ctx, tree, testCatalogue())
	is.NoErr(err)

	c := client(srv).Tree(tree.ModelID())
	_, err = c.CreateContainer(ctx, result.CatalogueID, mdm.NewContainer{Label: "Notas do editor", Index: 5})
	is.NoErr(err)
	_, err = c.CreateContainer(ctx, result.Containers["datasets.0"], mdm.NewContainer{Label: "Anexos", Index: 5})
	is.NoErr(err)

	loaded, err := LoadCatalogue(ctx, tree, result.CatalogueID)
	is.NoErr(err)
	is.Equal(len(loaded.Datasets), 1)
	is.Equal(len(loaded.DataServices), 1)
	is.Equal(len(loaded.Datasets[0].Distributions), 2)
}

func TestSchemaOrderFollowsSavedOrder(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	result, err := materializer.SaveCatalogue(ctx, tree, testCatalogue())
	is.NoErr(err)

	datasetID := result.Containers["datasets.0"]
	fields := []domain.SchemaField{
		{Label: "zona", DataType: domain.DataTypeRef{Label: dcatap.TypeString}},
		{Label: "ano", DataType: domain.DataTypeRef{Label: dcatap.TypeDecimal}},
		{Label: "concelho", DataType: domain.DataTypeRef{Label: dcatap.TypeString}},
	}

	_, err = materializer.SaveSchema(ctx, tree, datasetID, fields)
	is.NoErr(err)

	loaded, err := LoadSchema(ctx, tree, datasetID)
	is.NoErr(err)
	is.Equal(len(loaded), 3)
	is.Equal(loaded[0].Label, "zona")
	is.Equal(loaded[1].Label, "ano")
	is.Equal(loaded[1].DataType.Label, dcatap.TypeDecimal)
	is.True(loaded[1].ID != "")
}

func TestDirectoryRoundTrip(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	saved := domain.NewDirectory()
	saved.Agents = []domain.Agent{
		{Name: "INE", Description: "Instituto Nacional de Estatística", URL: "https://www.ine.pt", ID: "500000000", Contacts: []domain.Contact{}},
		{Name: "APA", Contacts: []domain.Contact{{Mail: "geral@apa.pt", Phone: "214 721 000"}, {Mail: "dados@apa.pt"}}},
	}
	saved.LegalResources = []domain.LegalResource{{
		Jurisdiction: "PT",
		LegalAct:     "decreto",
		Agents:       []domain.Agent{{Name: "AMA", Contacts: []domain.Contact{}}},
	}}

	result, err := materializer.SaveDirectory(ctx, tree, saved)
	is.NoErr(err)

	loaded, err := LoadDirectory(ctx, tree)
	is.NoErr(err)

	is.Equal(loaded.Agents[1].ContainerID, result.Containers["agents.1"])
	is.Equal(loaded.LegalResources[0].ID, result.Containers["recursosLegais.0"])

	for i := range loaded.Agents {
		loaded.Agents[i].ContainerID = ""
	}
	loaded.LegalResources[0].ID = ""
	loaded.LegalResources[0].Agents[0].ContainerID = ""

	is.Equal(*loaded, saved)
}

func TestRemovedContactsStayRemoved(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	d := domain.NewDirectory()
	d.Agents = []domain.Agent{{Name: "APA", Contacts: []domain.Contact{{Mail: "a@apa.pt", Phone: "1"}, {Mail: "b@apa.pt", Phone: "2"}}}}

	_, err := materializer.SaveDirectory(ctx, tree, d)
	is.NoErr(err)

	d.Agents[0].Contacts = []domain.Contact{{Mail: "b@apa.pt", Phone: "2"}}
	_, err = materializer.SaveDirectory(ctx, tree, d)
	is.NoErr(err)

	loaded, err := LoadDirectory(ctx, tree)
	is.NoErr(err)
	is.Equal(loaded.Agents[0].Contacts, []domain.Contact{{Mail: "b@apa.pt", Phone: "2"}})

	d.Agents[0].Contacts = []domain.Contact{}
	_, err = materializer.SaveDirectory(ctx, tree, d)
	is.NoErr(err)

	loaded, err = LoadDirectory(ctx, tree)
	is.NoErr(err)
	is.Equal(loaded.Agents[0].Contacts, []domain.Contact{})
}

func TestListCataloguesAndDatasets(t *testing.T) {
	is, _, tree := testSetup(t)
	ctx := context.Background()

	result, err := materializer.SaveCatalogue(ctx, tree, testCatalogue())
	is.NoErr(err)

	_, err = materializer.SaveDirectory(ctx, tree, domain.Directory{Agents: []domain.Agent{{Name: "INE"}}})
	is.NoErr(err)

	catalogues, err := ListCatalogues(ctx, tree)
	is.NoErr(err)
	is.Equal(catalogues, []Summary{{ID: result.CatalogueID, Title: "Ambiente", Description: "Dados ambientais do município"}})

	datasets, err := ListDatasets(ctx, tree, result.CatalogueID)
	is.NoErr(err)
	is.Equal(len(datasets), 1)
	is.Equal(datasets[0].Title, "Pop2023")
	is.Equal(datasets[0].ID, result.Containers["datasets.0"])
}

func TestListFailureIsReturned(t *testing.T) {
	is := is.New(t)

	tree := &mdm.TreeClientMock{
		ModelIDFunc: func() string { return "m1" },
		ListChildrenFunc: func(ctx context.Context, parentID string) ([]mdm.Container, error) {
			return nil, &mdm.RemoteError{Kind: mdm.ErrUnauthorized, StatusCode: 401}
		},
	}

	_, err := ListCatalogues(context.Background(), tree)
	is.True(errors.Is(err, mdm.ErrUnauthorized))

	_, err = LoadDirectory(context.Background(), tree)
	is.True(errors.Is(err, mdm.ErrUnauthorized))
}

func testSetup(t *testing.T) (*is.I, *mdmtest.Server, mdm.TreeClient) {
	is := is.New(t)

	srv := mdmtest.NewServer()
	t.Cleanup(srv.Close)

	modelID := srv.AddDataModel(mdmtest.DefaultFolderID, "Ambiente")

	_, err := materializer.ProvisionTypes(context.Background(), client(srv), modelID)
	is.NoErr(err)

	return is, srv, client(srv).Tree(modelID)
}

func client(srv *mdmtest.Server) mdm.Client {
	return mdm.NewClient(srv.URL())
}

func withoutIDs(c domain.Catalogue) domain.Catalogue {
	c.ID = ""
	for i := range c.Datasets {
		c.Datasets[i].ID = ""
		for j := range c.Datasets[i].Distributions {
			c.Datasets[i].Distributions[j].ID = ""
		}
		for j := range c.Datasets[i].Schema {
			c.Datasets[i].Schema[j].ID = ""
			c.Datasets[i].Schema[j].DataType.ID = ""
		}
	}
	for i := range c.DataServices {
		c.DataServices[i].ID = ""
	}
	return c
}

func testCatalogue() domain.Catalogue {
	c := domain.NewCatalogue()
	c.Title = "Ambiente"
	c.Description = "Dados ambientais do município"
	c.Language = "pt"
	c.ModifiedDate = "2024-05-02"
	c.Homepage = "https://dados.example.pt"
	c.Owner = "Câmara Municipal"

	d := domain.NewDataset()
	d.Title = "Pop2023"
	d.Description = "População residente"
	d.Access = "public"
	d.Category = "demografia"
	d.Version = 2
	d.ModifiedDate = "2024-04-30"
	d.Language = "pt"
	d.Tags = []string{"população", "censos"}
	d.Distributions = []domain.Distribution{
		{Title: "CSV", Description: "Ficheiro CSV", Format: "csv", AccessURL: "https://dados.example.pt/pop2023.csv", License: "CC-BY-4.0"},
		{Title: "JSON", Format: "json", DownloadURL: "https://dados.example.pt/pop2023.json", Created: "2024-01-10"},
	}
	d.Schema = []domain.SchemaField{
		{Label: "ano", Description: "Ano do censo", DataType: domain.DataTypeRef{Label: dcatap.TypeDecimal}},
		{Label: "concelho", Description: "Concelho de residência", DataType: domain.DataTypeRef{Label: dcatap.TypeString}},
	}

	c.Datasets = append(c.Datasets, d)
	c.DataServices = append(c.DataServices, domain.DataService{
		Title:       "API de Qualidade do Ar",
		Description: "Medições horárias",
		EndpointURL: "https://api.example.pt/ar",
		License:     "CC0",
		Access:      "public",
		Format:      "json",
	})

	return c
}
