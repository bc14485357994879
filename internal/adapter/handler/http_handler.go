package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/coffee-service/internal/core/domain"
	"github.com/rl1809/coffee-service/internal/core/service"
	"github.com/rl1809/coffee-service/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type HTTPHandler struct {
	coffeeService *service.CoffeeService
	checks        []HealthCheck
	devMode       bool
	logger        *zap.Logger
}

type ErrorResponse struct {
	StatusCode    int               `json:"statusCode"`
	Message       string            `json:"message"`
	Errors        map[string]string `json:"errors,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
}

// NewHTTPHandler wires the coffee API. devMode exposes internal error text
// in 500 responses.
func NewHTTPHandler(coffeeService *service.CoffeeService, logger *zap.Logger, devMode bool, checks ...HealthCheck) *HTTPHandler {
	return &HTTPHandler{
		coffeeService: coffeeService,
		checks:        checks,
		devMode:       devMode,
		logger:        logger,
	}
}

// Routes returns the API mux wrapped in the standard middleware chain.
func (h *HTTPHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /coffee", h.GetAll)
	mux.HandleFunc("GET /coffee/{id}", h.GetByID)
	mux.HandleFunc("POST /coffee", h.Create)
	mux.HandleFunc("PUT /coffee/{id}", h.Update)
	mux.HandleFunc("DELETE /coffee/{id}", h.Delete)

	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /health/live", h.Liveness)
	mux.HandleFunc("GET /health/ready", h.Readiness)

	return Chain(mux,
		CorrelationID(h.logger),
		RequestLogging,
		Recovery(h.devMode),
	)
}

func (h *HTTPHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	coffees, err := h.coffeeService.GetAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coffees)
}

func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	coffee, err := h.coffeeService.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if coffee == nil {
		writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, coffee)
}

func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCoffeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "invalid request body",
		})
		return
	}

	coffee, err := h.coffeeService.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/coffee/"+coffee.ID)
	writeJSON(w, http.StatusCreated, coffee)
}

func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.UpdateCoffeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "invalid request body",
		})
		return
	}

	coffee, err := h.coffeeService.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, id)
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coffee)
}

func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.coffeeService.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		writeNotFound(w, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts the {id} segment and rejects anything that is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "invalid coffee id",
		})
		return "", false
	}
	return id, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Errors:     vErr.Fields,
		})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		})
	default:
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeInternalError(w, r, err, h.devMode)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error, devMode bool) {
	message := "an unexpected error occurred"
	if devMode && err != nil {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		StatusCode:    http.StatusInternalServerError,
		Message:       message,
		CorrelationID: CorrelationIDFromContext(r.Context()),
	})
}

func writeNotFound(w http.ResponseWriter, id string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "Coffee with ID %s not found", id)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
