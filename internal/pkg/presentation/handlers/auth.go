package handlers

import (
	"net/http"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/rs/zerolog"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewLoginHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "login")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		creds := credentials{}
		if err = decodeBody(w, r, &creds); err != nil {
			writeError(w, log, err, nil)
			return
		}

		session, err := factory("").Login(ctx, creds.Username, creds.Password)
		if err != nil {
			writeError(w, log, err, nil)
			return
		}

		log.Info().Str("user", session.User.EmailAddress).Msg("user logged in")

		writeData(w, log, http.StatusOK, session)
	})
}

func NewLogoutHandler(logger zerolog.Logger, factory ClientFactory) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "logout")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logger, ctx)

		if err = clientFor(r, factory).Logout(ctx); err != nil {
			writeError(w, log, err, nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
