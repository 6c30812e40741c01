// Package mdmtest serves an in-memory metadata repository that speaks the subset of the
// Mauro Data Mapper API used by package mdm.
package mdmtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

const DefaultFolderID string = "folder"

type Server struct {
	mu sync.Mutex

	server *httptest.Server

	username string
	password string
	sessions map[string]bool

	models   map[string]*model
	classes  map[string]*class
	elements map[string]*element

	writes int
	failOn func(method, path string) bool
}

type model struct {
	id           string
	folderID     string
	label        string
	description  string
	organisation string
	types        []*dataType
}

type dataType struct {
	ID                string             `json:"id"`
	DomainType        string             `json:"domainType"`
	Label             string             `json:"label"`
	EnumerationValues []enumerationValue `json:"enumerationValues,omitempty"`
}

type enumerationValue struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type class struct {
	ID              string `json:"id"`
	DomainType      string `json:"domainType"`
	Label           string `json:"label"`
	Description     string `json:"description"`
	Model           string `json:"model"`
	ParentDataClass string `json:"parentDataClass,omitempty"`
	MinMultiplicity int    `json:"minMultiplicity"`
	MaxMultiplicity int    `json:"maxMultiplicity"`
	Index           int    `json:"index"`
}

type element struct {
	ID              string    `json:"id"`
	DomainType      string    `json:"domainType"`
	Label           string    `json:"label"`
	Description     string    `json:"description"`
	DataClass       string    `json:"dataClass"`
	DataType        *dataType `json:"dataType,omitempty"`
	MinMultiplicity int       `json:"minMultiplicity"`
	MaxMultiplicity int       `json:"maxMultiplicity"`
	Index           int       `json:"index"`
}

type Option func(*Server)

// WithCredentials makes login check the given credentials and every other request
// require the session cookie handed out by login.
func WithCredentials(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

func NewServer(options ...Option) *Server {
	s := &Server{
		sessions: map[string]bool{},
		models:   map[string]*model{},
		classes:  map[string]*class{},
		elements: map[string]*element{},
	}

	for _, option := range options {
		option(s)
	}

	s.server = httptest.NewServer(s.router())

	return s
}

func (s *Server) URL() string {
	return s.server.URL
}

func (s *Server) Close() {
	s.server.Close()
}

// AddDataModel creates an empty data model in folderID and returns its id.
func (s *Server) AddDataModel(folderID, label string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &model{id: uuid.NewString(), folderID: folderID, label: label}
	s.models[m.id] = m
	return m.id
}

// DeclareType adds a data type to a model. Any given values make it an enumeration,
// with each value used as both key and value.
func (s *Server) DeclareType(modelID, label string, values ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := &dataType{ID: uuid.NewString(), DomainType: mdm.PrimitiveType, Label: label}
	for _, v := range values {
		dt.DomainType = mdm.EnumerationType
		dt.EnumerationValues = append(dt.EnumerationValues, enumerationValue{ID: uuid.NewString(), Key: v, Value: v})
	}

	s.models[modelID].types = append(s.models[modelID].types, dt)
	return dt.ID
}

// FailWhen makes every request for which fail returns true respond with 500.
func (s *Server) FailWhen(fail func(method, path string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = fail
}

// Writes returns the number of successful POST and PUT requests served so far.
func (s *Server) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Containers returns every data class of a model, ordered by parent and index.
func (s *Server) Containers(modelID string) []mdm.Container {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []mdm.Container{}
	for _, c := range s.classes {
		if c.Model == modelID {
			result = append(result, mdm.Container{
				ID:           c.ID,
				ParentID:     c.ParentDataClass,
				Label:        c.Label,
				Description:  c.Description,
				Multiplicity: mdm.Multiplicity{Min: c.MinMultiplicity, Max: c.MaxMultiplicity},
				Index:        c.Index,
			})
		}
	}

	slices.SortFunc(result, func(a, b mdm.Container) bool {
		if a.ParentID != b.ParentID {
			return a.ParentID < b.ParentID
		}
		return a.Index < b.Index
	})

	return result
}

// Leaves returns the data elements of a container keyed by label.
func (s *Server) Leaves(containerID string) map[string]mdm.Leaf {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := map[string]mdm.Leaf{}
	for _, e := range s.elements {
		if e.DataClass == containerID {
			l := mdm.Leaf{
				ID:           e.ID,
				ContainerID:  e.DataClass,
				Label:        e.Label,
				Value:        e.Description,
				Multiplicity: mdm.Multiplicity{Min: e.MinMultiplicity, Max: e.MaxMultiplicity},
				Index:        e.Index,
			}
			if e.DataType != nil {
				l.DataType = mdm.DataTypeRef{ID: e.DataType.ID, Label: e.DataType.Label}
			}
			result[e.Label] = l
		}
	}

	return result
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.failures)

	r.Post("/authentication/login", s.login)
	r.Get("/authentication/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)

		r.Get("/folders/{folderId}/dataModels", s.listModels)
		r.Post("/folders/{folderId}/dataModels", s.createModel)

		r.Route("/dataModels/{modelId}", func(r chi.Router) {
			r.Use(s.modelExists)

			r.Get("/", s.getModel)
			r.Get("/dataTypes", s.listTypes)
			r.Post("/dataTypes", s.createType)

			r.Get("/dataClasses", s.listClasses)
			r.Post("/dataClasses", s.createClass)
			r.Get("/dataClasses/{classId}", s.getClass)
			r.Put("/dataClasses/{classId}", s.updateClass)

			r.Get("/dataClasses/{classId}/dataClasses", s.listClasses)
			r.Post("/dataClasses/{classId}/dataClasses", s.createClass)
			r.Put("/dataClasses/{classId}/dataClasses/{childId}", s.updateClass)

			r.Get("/dataClasses/{classId}/dataElements", s.listElements)
			r.Post("/dataClasses/{classId}/dataElements", s.createElement)
			r.Put("/dataClasses/{classId}/dataElements/{elementId}", s.updateElement)
		})
	})

	return r
}

func (s *Server) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		fail := s.failOn != nil && s.failOn(r.Method, r.URL.Path)
		s.mu.Unlock()

		if fail {
			writeError(w, http.StatusInternalServerError, "injected failure")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.username != "" {
			c, err := r.Cookie(mdm.SessionCookieName)

			s.mu.Lock()
			valid := err == nil && s.sessions[c.Value]
			s.mu.Unlock()

			if !valid {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) modelExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		_, ok := s.models[chi.URLParam(r, "modelId")]
		s.mu.Unlock()

		if !ok {
			writeError(w, http.StatusNotFound, "no such data model")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	credentials := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.username != "" && (credentials.Username != s.username || credentials.Password != s.password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = true
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: mdm.SessionCookieName, Value: token, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           uuid.NewString(),
		"emailAddress": credentials.Username,
		"pending":      false,
		"disabled":     false,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mdm.SessionCookieName); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}

	w.WriteHeader(http.StatusNoContent)
}

type modelDTO struct {
	ID           string `json:"id"`
	DomainType   string `json:"domainType"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	Organisation string `json:"organisation,omitempty"`
}

func (m *model) dto() modelDTO {
	return modelDTO{ID: m.id, DomainType: "DataModel", Label: m.label, Description: m.description, Organisation: m.organisation}
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderId")

	s.mu.Lock()
	items := []modelDTO{}
	for _, m := range s.models {
		if m.folderID == folderID {
			items = append(items, m.dto())
		}
	}
	s.mu.Unlock()

	slices.SortFunc(items, func(a, b modelDTO) bool { return a.Label < b.Label })
	writeList(w, items)
}

func (s *Server) createModel(w http.ResponseWriter, r *http.Request) {
	body := modelDTO{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body.Label == "" {
		writeError(w, http.StatusUnprocessableEntity, "Property [label] cannot be null")
		return
	}

	folderID := chi.URLParam(r, "folderId")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.models {
		if m.folderID == folderID && m.label == body.Label {
			writeError(w, http.StatusUnprocessableEntity, notUnique("DataModel", body.Label))
			return
		}
	}

	m := &model{id: uuid.NewString(), folderID: folderID, label: body.Label, description: body.Description, organisation: body.Organisation}
	s.models[m.id] = m
	s.writes++

	writeJSON(w, http.StatusCreated, m.dto())
}

func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.models[chi.URLParam(r, "modelId")]
	dto := m.dto()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.models[chi.URLParam(r, "modelId")]
	items := make([]dataType, 0, len(m.types))
	for _, dt := range m.types {
		items = append(items, *dt)
	}
	s.mu.Unlock()

	writeList(w, items)
}

func (s *Server) createType(w http.ResponseWriter, r *http.Request) {
	body := dataType{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.models[chi.URLParam(r, "modelId")]
	for _, dt := range m.types {
		if dt.Label == body.Label {
			writeError(w, http.StatusUnprocessableEntity, notUnique("DataType", body.Label))
			return
		}
	}

	body.ID = uuid.NewString()
	for i := range body.EnumerationValues {
		body.EnumerationValues[i].ID = uuid.NewString()
	}

	m.types = append(m.types, &body)
	s.writes++

	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) listClasses(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelId")
	parentID := chi.URLParam(r, "classId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		if _, ok := s.classIn(modelID, parentID); !ok {
			writeError(w, http.StatusNotFound, "no such data class")
			return
		}
	}

	writeList(w, s.childrenOf(modelID, parentID))
}

func (s *Server) createClass(w http.ResponseWriter, r *http.Request) {
	body := class{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(body.Label) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Property [label] cannot be null")
		return
	}

	modelID := chi.URLParam(r, "modelId")
	parentID := chi.URLParam(r, "classId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		if _, ok := s.classIn(modelID, parentID); !ok {
			writeError(w, http.StatusNotFound, "no such data class")
			return
		}
	}

	for _, sibling := range s.childrenOf(modelID, parentID) {
		if sibling.Label == body.Label {
			writeError(w, http.StatusUnprocessableEntity, notUnique("DataClass", body.Label))
			return
		}
	}

	body.ID = uuid.NewString()
	body.DomainType = "DataClass"
	body.Model = modelID
	body.ParentDataClass = parentID

	s.classes[body.ID] = &body
	s.writes++

	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) getClass(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	c, ok := s.classIn(chi.URLParam(r, "modelId"), chi.URLParam(r, "classId"))
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "no such data class")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateClass(w http.ResponseWriter, r *http.Request) {
	body := class{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	modelID := chi.URLParam(r, "modelId")

	// nested children are addressed as .../dataClasses/{classId}/dataClasses/{childId}
	parentID, classID := "", chi.URLParam(r, "classId")
	if childID := chi.URLParam(r, "childId"); childID != "" {
		parentID, classID = classID, childID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.classIn(modelID, classID)
	if !ok || c.ParentDataClass != parentID {
		writeError(w, http.StatusNotFound, "no such data class")
		return
	}

	if body.Label != "" && body.Label != c.Label {
		for _, sibling := range s.childrenOf(modelID, c.ParentDataClass) {
			if sibling.Label == body.Label {
				writeError(w, http.StatusUnprocessableEntity, notUnique("DataClass", body.Label))
				return
			}
		}
		c.Label = body.Label
	}

	c.Description = body.Description
	c.MinMultiplicity = body.MinMultiplicity
	c.MaxMultiplicity = body.MaxMultiplicity
	c.Index = body.Index
	s.writes++

	writeJSON(w, http.StatusOK, c)
}

type elementInput struct {
	Label           string `json:"label"`
	Description     string `json:"description"`
	DataType        string `json:"dataType"`
	MinMultiplicity int    `json:"minMultiplicity"`
	MaxMultiplicity int    `json:"maxMultiplicity"`
	Index           int    `json:"index"`
}

func (s *Server) listElements(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelId")
	classID := chi.URLParam(r, "classId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classIn(modelID, classID); !ok {
		writeError(w, http.StatusNotFound, "no such data class")
		return
	}

	writeList(w, s.elementsOf(classID))
}

func (s *Server) createElement(w http.ResponseWriter, r *http.Request) {
	body := elementInput{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	modelID := chi.URLParam(r, "modelId")
	classID := chi.URLParam(r, "classId")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classIn(modelID, classID); !ok {
		writeError(w, http.StatusNotFound, "no such data class")
		return
	}

	dt, ok := s.typeIn(modelID, body.DataType)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "Property [dataType] cannot be null")
		return
	}

	for _, sibling := range s.elementsOf(classID) {
		if sibling.Label == body.Label {
			writeError(w, http.StatusUnprocessableEntity, notUnique("DataElement", body.Label))
			return
		}
	}

	e := &element{
		ID:              uuid.NewString(),
		DomainType:      "DataElement",
		Label:           body.Label,
		Description:     body.Description,
		DataClass:       classID,
		DataType:        dt,
		MinMultiplicity: body.MinMultiplicity,
		MaxMultiplicity: body.MaxMultiplicity,
		Index:           body.Index,
	}

	s.elements[e.ID] = e
	s.writes++

	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateElement(w http.ResponseWriter, r *http.Request) {
	body := elementInput{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	modelID := chi.URLParam(r, "modelId")
	classID := chi.URLParam(r, "classId")

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.elements[chi.URLParam(r, "elementId")]
	if !ok || e.DataClass != classID {
		writeError(w, http.StatusNotFound, "no such data element")
		return
	}

	if body.DataType != "" {
		dt, ok := s.typeIn(modelID, body.DataType)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "unknown data type")
			return
		}
		e.DataType = dt
	}

	if body.Label != "" && body.Label != e.Label {
		for _, sibling := range s.elementsOf(classID) {
			if sibling.Label == body.Label {
				writeError(w, http.StatusUnprocessableEntity, notUnique("DataElement", body.Label))
				return
			}
		}
		e.Label = body.Label
	}

	e.Description = body.Description
	e.MinMultiplicity = body.MinMultiplicity
	e.MaxMultiplicity = body.MaxMultiplicity
	e.Index = body.Index
	s.writes++

	writeJSON(w, http.StatusOK, e)
}

// the helpers below expect s.mu to be held

func (s *Server) classIn(modelID, classID string) (*class, bool) {
	c, ok := s.classes[classID]
	if !ok || c.Model != modelID {
		return nil, false
	}
	return c, true
}

func (s *Server) typeIn(modelID, typeID string) (*dataType, bool) {
	for _, dt := range s.models[modelID].types {
		if dt.ID == typeID {
			return dt, true
		}
	}
	return nil, false
}

func (s *Server) childrenOf(modelID, parentID string) []class {
	children := []class{}
	for _, c := range s.classes {
		if c.Model == modelID && c.ParentDataClass == parentID {
			children = append(children, *c)
		}
	}

	slices.SortFunc(children, func(a, b class) bool {
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Label < b.Label
	})

	return children
}

func (s *Server) elementsOf(classID string) []element {
	elements := []element{}
	for _, e := range s.elements {
		if e.DataClass == classID {
			elements = append(elements, *e)
		}
	}

	slices.SortFunc(elements, func(a, b element) bool {
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Label < b.Label
	})

	return elements
}

func notUnique(class, label string) string {
	return fmt.Sprintf("Property [label] of class [class %s] with value [%s] must be unique", class, label)
}

func writeList[T any](w http.ResponseWriter, items []T) {
	writeJSON(w, http.StatusOK, struct {
		Count int `json:"count"`
		Items []T `json:"items"`
	}{len(items), items})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"total":  1,
		"errors": []map[string]string{{"message": message}},
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	b, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(b)
}
