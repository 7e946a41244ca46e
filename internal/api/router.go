// Package api - HTTP шлюз к расчёту свободных слотов.
package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты и общие middleware
func NewRouter(availabilityHandler *AvailabilityHandler, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithAccessLog(logger))
	r.Use(WithBearerToken)

	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/empresas/{empresaId}/disponibilidade", availabilityHandler.GetDay).Methods(http.MethodGet)
	v1.HandleFunc("/empresas/{empresaId}/disponibilidade/semana", availabilityHandler.GetWeek).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)

	return recovery(cors(r))
}
