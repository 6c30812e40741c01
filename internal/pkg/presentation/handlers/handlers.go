package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/dematerializer"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/application/organisations"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/domain"
	"github.com/diwise/api-dcat-ap-pt/internal/pkg/infrastructure/mdm"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("api-dcat-ap-pt/api")

var ErrBadRequestBody = errors.New("bad request body")

// ClientFactory returns an mdm client acting on behalf of the session token. The
// token is empty when the request carries no session.
type ClientFactory func(sessionToken string) mdm.Client

func clientFor(r *http.Request, factory ClientFactory) mdm.Client {
	token := ""

	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		token = strings.TrimSpace(auth[7:])
	}

	return factory(token)
}

// maxBodySize caps request bodies. Larger bodies are rejected as bad requests.
const maxBodySize int64 = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequestBody, err.Error())
	}

	if err = json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequestBody, err.Error())
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingTitle),
		errors.Is(err, ErrBadRequestBody),
		errors.Is(err, organisations.ErrNoSuchOrganisation),
		errors.Is(err, mdm.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, dematerializer.ErrWrongKind), errors.Is(err, mdm.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateLabel), errors.Is(err, mdm.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, mdm.ErrUnauthorized):
		return http.StatusUnauthorized
	}

	return http.StatusBadGateway
}

type errorResponse struct {
	Error  string `json:"error"`
	Result any    `json:"result,omitempty"`
}

func writeError(w http.ResponseWriter, log zerolog.Logger, err error, result any) {
	status := statusFor(err)

	if status == http.StatusBadGateway {
		log.Error().Err(err).Msg("request to data mapper failed")
	} else {
		log.Info().Err(err).Int("status", status).Msg("request rejected")
	}

	b, _ := json.Marshal(errorResponse{Error: err.Error(), Result: result})

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func writeData(w http.ResponseWriter, log zerolog.Logger, status int, data any) {
	writeJSON(w, log, status, struct {
		Data any `json:"data"`
	}{data})
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
