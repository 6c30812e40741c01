package mdm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestDuplicateLabelIsReportedAsConflict(t *testing.T) {
	is, ms := testSetup(t, http.StatusUnprocessableEntity, duplicateLabelJson)
	tree := NewClient(ms.URL()).Tree("m1")

	_, err := tree.CreateContainer(context.Background(), "", NewContainer{Label: "Catálogo - Ambiente"})
	is.True(errors.Is(err, ErrConflict))

	re := &RemoteError{}
	is.True(errors.As(err, &re))
	is.Equal(re.StatusCode, http.StatusUnprocessableEntity)
	is.Equal(re.Method, http.MethodPost)
	is.Equal(re.Path, "/dataModels/m1/dataClasses")
}

func TestStatusCodesAreMappedToErrorKinds(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            ErrNotFound,
		http.StatusUnauthorized:        ErrUnauthorized,
		http.StatusForbidden:           ErrUnauthorized,
		http.StatusConflict:            ErrConflict,
		http.StatusBadRequest:          ErrInvalidRequest,
		http.StatusInternalServerError: ErrServer,
		http.StatusBadGateway:          ErrServer,
	}

	for code, kind := range cases {
		is, ms := testSetup(t, code, `{"message":"nope"}`)

		_, err := NewClient(ms.URL()).DataModel(context.Background(), "m1")
		is.True(errors.Is(err, kind)) // wrong error kind for status code
	}
}

func TestTransportFailureIsReported(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewClient(url).Tree("m1").ListChildren(context.Background(), "")
	is.True(errors.Is(err, ErrTransport))
}

func TestMalformedResponseIsReported(t *testing.T) {
	is, ms := testSetup(t, http.StatusOK, `{"count":1,"items":[{"label":"no id"}]}`)

	_, err := NewClient(ms.URL()).Tree("m1").ListChildren(context.Background(), "")
	is.True(errors.Is(err, ErrMalformedResponse))
}

func TestListChildrenConvertsDataClasses(t *testing.T) {
	is, ms := testSetup(t, http.StatusOK, dataClassesJson)

	children, err := NewClient(ms.URL()).Tree("m1").ListChildren(context.Background(), "c0")
	is.NoErr(err)
	is.Equal(len(children), 2)
	is.Equal(children[0].Label, "Dataset - População")
	is.Equal(children[0].ParentID, "c0")
	is.Equal(children[1].Multiplicity, Multiplicity{Min: 0, Max: Unbounded})
	is.Equal(children[1].Index, 1)
}

func TestListDeclaredTypesIndexesByLabel(t *testing.T) {
	is, ms := testSetup(t, http.StatusOK, dataTypesJson)

	types, err := NewClient(ms.URL()).Tree("m1").ListDeclaredTypes(context.Background())
	is.NoErr(err)

	s, ok := types.Lookup("String")
	is.True(ok)
	is.Equal(s.ID, "t1")

	access, ok := types.Lookup("Níveis_Acesso")
	is.True(ok)
	is.True(access.IsEnumeration())
	is.True(access.Accepts("PUBLIC"))
	is.True(access.Accepts("Público"))
	is.True(!access.Accepts("secret"))

	_, ok = types.ByID("t2")
	is.True(ok)
	is.True(!types.Has("Decimal"))
}

func TestLoginReturnsSessionTokenAndTokenIsSentAsCookie(t *testing.T) {
	is := is.New(t)

	var lastCookie string
	var lastAPIKey string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			lastCookie = c.Value
		}
		lastAPIKey = r.Header.Get("apiKey")

		switch r.URL.Path {
		case "/api/authentication/login":
			credentials := map[string]string{}
			is.NoErr(json.NewDecoder(r.Body).Decode(&credentials))
			is.Equal(credentials["username"], "admin@example.com")

			http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "s3ss10n"})
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"u1","emailAddress":"admin@example.com","pending":false,"disabled":false}`))
		case "/api/authentication/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	session, err := NewClient(ts.URL+"/api/").Login(context.Background(), "admin@example.com", "password")
	is.NoErr(err)
	is.Equal(session.Token, "s3ss10n")
	is.Equal(session.User.EmailAddress, "admin@example.com")

	err = NewClient(ts.URL+"/api", WithSessionToken(session.Token), WithAPIKey("k3y")).Logout(context.Background())
	is.NoErr(err)
	is.Equal(lastCookie, "s3ss10n")
	is.Equal(lastAPIKey, "k3y")
}

func TestFailedRequestLogOmitsCredentials(t *testing.T) {
	is, ms := testSetup(t, http.StatusInternalServerError, `{"message":"nope"}`)

	buf := &bytes.Buffer{}
	ctx := logging.NewContextWithLogger(context.Background(), zerolog.New(buf))

	_, err := NewClient(ms.URL(), WithSessionToken("s3ss10n"), WithAPIKey("k3y")).DataModel(ctx, "m1")
	is.True(errors.Is(err, ErrServer))

	logged := buf.String()
	is.True(strings.Contains(logged, "request failed"))
	is.True(strings.Contains(logged, "/dataModels/m1"))
	is.True(!strings.Contains(logged, "s3ss10n")) // session token in log
	is.True(!strings.Contains(logged, "k3y"))     // api key in log
}

func TestUpsertLeafUpdatesWhenIDIsKnown(t *testing.T) {
	is := is.New(t)

	var method, path string
	var body dataElementInputDTO

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		is.NoErr(json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"id":"e1","label":"Título","description":"Ambiente","dataType":{"id":"t1","label":"String"},"minMultiplicity":1,"maxMultiplicity":1}`))
	}))
	defer ts.Close()

	tree := NewClient(ts.URL).Tree("m1")

	leaf, err := tree.UpsertLeaf(context.Background(), "c1", LeafInput{ID: "e1", Label: "Título", Value: "Ambiente", DataTypeID: "t1", Multiplicity: Multiplicity{1, 1}})
	is.NoErr(err)
	is.Equal(method, http.MethodPut)
	is.Equal(path, "/dataModels/m1/dataClasses/c1/dataElements/e1")
	is.Equal(body.DataType, "t1")
	is.Equal(leaf.Value, "Ambiente")
	is.Equal(leaf.ContainerID, "c1")
	is.Equal(leaf.DataType.Label, "String")

	_, err = tree.UpsertLeaf(context.Background(), "c1", LeafInput{Label: "Idioma", Value: "pt", DataTypeID: "t1"})
	is.NoErr(err)
	is.Equal(method, http.MethodPost)
	is.Equal(path, "/dataModels/m1/dataClasses/c1/dataElements")
}

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput

func testSetup(t *testing.T, statusCode int, responseBody string) (*is.I, testutils.MockService) {
	is := is.New(t)

	ms := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.Code(statusCode),
			response.ContentType("application/json"),
			response.Body([]byte(responseBody)),
		),
	)

	return is, ms
}

const duplicateLabelJson string = `{"total":1,"errors":[{"message":"Property [label] of class [class uk.ac.ox.softeng.maurodatamapper.datamodel.item.DataClass] with value [Catálogo - Ambiente] must be unique"}]}`

const dataClassesJson string = `{
	"count": 2,
	"items": [
		{"id":"c1","domainType":"DataClass","label":"Dataset - População","description":"","minMultiplicity":1,"maxMultiplicity":1,"index":0},
		{"id":"c2","domainType":"DataClass","label":"Distribution - População.csv","parentDataClass":"c0","minMultiplicity":0,"maxMultiplicity":-1,"index":1}
	]
}`

const dataTypesJson string = `{
	"count": 2,
	"items": [
		{"id":"t1","domainType":"PrimitiveType","label":"String"},
		{"id":"t2","domainType":"EnumerationType","label":"Níveis_Acesso","enumerationValues":[
			{"id":"ev1","key":"PUBLIC","value":"Público"},
			{"id":"ev2","key":"RESTRICTED","value":"Restrito"}
		]}
	]
}`
