package mdm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("api-dcat-ap-pt/mdm")

const SessionCookieName string = "JSESSIONID"

// Client talks to a Mauro Data Mapper instance on behalf of one session.
type Client interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error

	DataModels(ctx context.Context, folderID string) ([]DataModel, error)
	DataModel(ctx context.Context, modelID string) (*DataModel, error)
	CreateDataModel(ctx context.Context, folderID string, dm NewDataModel) (*DataModel, error)
	DeclareType(ctx context.Context, modelID string, decl TypeDeclaration) (*DataType, error)

	Tree(modelID string) TreeClient
}

// TreeClient reads and writes the data classes (containers) and data elements (leaves)
// of a single data model. An empty parent id addresses the root of the model.
//
//go:generate moq -rm -out treeclient_mock.go . TreeClient
type TreeClient interface {
	ModelID() string

	ListDeclaredTypes(ctx context.Context) (DeclaredTypes, error)

	ListChildren(ctx context.Context, parentID string) ([]Container, error)
	Container(ctx context.Context, id string) (*Container, error)
	CreateContainer(ctx context.Context, parentID string, c NewContainer) (*Container, error)
	UpdateContainer(ctx context.Context, parentID, id string, c NewContainer) (*Container, error)

	ListLeaves(ctx context.Context, containerID string) ([]Leaf, error)
	UpsertLeaf(ctx context.Context, containerID string, l LeafInput) (*Leaf, error)
}

type Option func(*client)

// WithSessionToken sends the token returned by Login with every request.
func WithSessionToken(token string) Option {
	return func(c *client) {
		c.sessionToken = token
	}
}

func WithAPIKey(key string) Option {
	return func(c *client) {
		c.apiKey = key
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// NewClient returns a client for the API rooted at baseURL, e.g. http://mdm:8080/api
func NewClient(baseURL string, options ...Option) Client {
	c := &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

type client struct {
	baseURL      string
	httpClient   *http.Client
	sessionToken string
	apiKey       string
}

func (c *client) Login(ctx context.Context, username, password string) (*Session, error) {
	var err error
	ctx, span := tracer.Start(ctx, "login")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	credentials := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	user := User{}
	resp, err := c.do(ctx, http.MethodPost, "/authentication/login", credentials, &user)
	if err != nil {
		return nil, err
	}

	session := &Session{User: user}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			session.Token = cookie.Value
		}
	}

	return session, nil
}

func (c *client) Logout(ctx context.Context) error {
	var err error
	ctx, span := tracer.Start(ctx, "logout")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, err = c.do(ctx, http.MethodGet, "/authentication/logout", nil, nil)
	return err
}

func (c *client) DataModels(ctx context.Context, folderID string) ([]DataModel, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-datamodels")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	list := listDTO[dataModelDTO]{}
	_, err = c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(folderID)+"/dataModels?all=true", nil, &list)
	if err != nil {
		return nil, err
	}

	models, err := convertAll(list.Items, dataModelDTO.toDataModel)
	return models, err
}

func (c *client) DataModel(ctx context.Context, modelID string) (*DataModel, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-datamodel")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	dto := dataModelDTO{}
	_, err = c.do(ctx, http.MethodGet, "/dataModels/"+url.PathEscape(modelID), nil, &dto)
	if err != nil {
		return nil, err
	}

	dm, err := dto.toDataModel()
	if err != nil {
		return nil, err
	}

	return &dm, nil
}

func (c *client) CreateDataModel(ctx context.Context, folderID string, newModel NewDataModel) (*DataModel, error) {
	var err error
	ctx, span := tracer.Start(ctx, "create-datamodel")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := dataModelDTO{
		Label:        newModel.Label,
		Description:  newModel.Description,
		Organisation: newModel.Organisation,
		Type:         "Data Standard",
	}

	dto := dataModelDTO{}
	_, err = c.do(ctx, http.MethodPost, "/folders/"+url.PathEscape(folderID)+"/dataModels", body, &dto)
	if err != nil {
		return nil, err
	}

	dm, err := dto.toDataModel()
	if err != nil {
		return nil, err
	}

	return &dm, nil
}

func (c *client) DeclareType(ctx context.Context, modelID string, decl TypeDeclaration) (*DataType, error) {
	var err error
	ctx, span := tracer.Start(ctx, "declare-datatype")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := dataTypeDTO{
		DomainType: PrimitiveType,
		Label:      decl.Label,
	}

	if len(decl.EnumerationValues) > 0 {
		body.DomainType = EnumerationType
		for _, ev := range decl.EnumerationValues {
			body.EnumerationValues = append(body.EnumerationValues, enumerationValueDTO{Key: ev.Key, Value: ev.Value})
		}
	}

	dto := dataTypeDTO{}
	_, err = c.do(ctx, http.MethodPost, "/dataModels/"+url.PathEscape(modelID)+"/dataTypes", body, &dto)
	if err != nil {
		return nil, err
	}

	dt, err := dto.toDataType()
	if err != nil {
		return nil, err
	}

	return &dt, nil
}

func (c *client) Tree(modelID string) TreeClient {
	return &treeClient{
		client:  c,
		modelID: modelID,
	}
}

// do sends one request and decodes a successful response body into result. Any status
// code outside 2xx is turned into a *RemoteError.
func (c *client) do(ctx context.Context, method, path string, body, result any) (*http.Response, error) {
	var reqBody io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: c.sessionToken})
	}

	if c.apiKey != "" {
		req.Header.Add("apiKey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.StatusCode != http.StatusNotFound {
			redacted := req.Clone(ctx)
			redacted.Header.Del("Cookie")
			redacted.Header.Del("apiKey")

			reqbytes, _ := httputil.DumpRequest(redacted, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			log := logging.GetFromContext(ctx)
			log.Error().Str("request", string(reqbytes)).Str("response", string(respbytes)).Msg("request failed")
		}

		return resp, newStatusError(method, path, resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		err = json.Unmarshal(respBody, result)
		if err != nil {
			return resp, fmt.Errorf("%w: failed to unmarshal response to %s %s: %s", ErrMalformedResponse, method, path, err.Error())
		}
	}

	return resp, nil
}
