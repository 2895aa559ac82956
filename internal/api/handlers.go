// Package api exposes HTTP handlers for the sheet service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/parser"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

// Handler coordinates HTTP requests with the store and catalog.
type Handler struct {
	store   *store.MergeStore
	catalog *catalog.Catalog
	parser  *parser.Parser
}

// NewHandler builds a Handler.
func NewHandler(s *store.MergeStore, c *catalog.Catalog, p *parser.Parser) *Handler {
	return &Handler{store: s, catalog: c, parser: p}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sheets", h.sheets)
	mux.HandleFunc("/v1/sheets/", h.sheetLines)
	mux.HandleFunc("/v1/people/", h.personByName)
	mux.HandleFunc("/v1/districts/", h.districtExercises)
	mux.HandleFunc("/v1/exercises/", h.exerciseDistrict)
	mux.HandleFunc("/v1/catalog/exercises", h.catalogExercises)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) sheets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req CreateSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	ts := domain.FormatTimestamp(time.Now())
	person := domain.Person{Name: req.PersonName()}
	for _, entry := range req.Exercises {
		district := entry.District
		if district == "" {
			if d, err := h.catalog.DistrictOf(entry.Name); err == nil {
				district = d
			}
		}
		person.Exercises = append(person.Exercises, domain.Exercise{
			Name:     entry.Name,
			District: district,
			Volumes:  []domain.Volume{{Weight: entry.Weight, Reps: entry.Reps, TS: ts}},
		})
	}

	if err := h.store.Save(r.Context(), person); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, CreateSheetResponse{
		SheetID:   uuid.NewString(),
		PersonKey: person.Name,
		Merged:    len(person.Exercises),
	})
}

// sheetLines handles POST /v1/sheets/{name}/lines with a text/plain body of
// freeform workout lines.
func (h *Handler) sheetLines(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sheets/")
	name, tail, found := strings.Cut(rest, "/")
	if !found || tail != "lines" || name == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	person, err := h.parser.ParsePerson(name, r.Body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(person.Exercises) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "no parseable lines in body")
		return
	}

	if err := h.store.Save(r.Context(), person); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, CreateSheetResponse{
		SheetID:   uuid.NewString(),
		PersonKey: person.Name,
		Merged:    len(person.Exercises),
	})
}

func (h *Handler) personByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/v1/people/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing person name")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	person, err := h.store.Load(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonView(person))
}

// districtExercises handles GET /v1/districts/{district}/exercises.
func (h *Handler) districtExercises(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/districts/")
	district, tail, found := strings.Cut(rest, "/")
	if !found || tail != "exercises" || district == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	exercises, err := h.catalog.ExercisesOf(district)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"district": district, "exercises": exercises})
}

// exerciseDistrict handles GET /v1/exercises/{exercise}/district.
func (h *Handler) exerciseDistrict(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/exercises/")
	exercise, tail, found := strings.Cut(rest, "/")
	if !found || tail != "district" || exercise == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	district, err := h.catalog.DistrictOf(exercise)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": exercise, "district": district})
}

func (h *Handler) catalogExercises(w http.ResponseWriter, r *http.Request) {
	var req CatalogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := h.catalog.AddExercise(req.District, req.Exercise); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, req)
	case http.MethodDelete:
		if err := h.catalog.RemoveExercise(req.District, req.Exercise); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var inputErr *domain.InputError
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, "invalid_request", inputErr.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", validationErr.Error())
	case errors.Is(err, domain.ErrPersonNotFound),
		errors.Is(err, catalog.ErrDistrictNotFound),
		errors.Is(err, catalog.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDecode):
		writeError(w, http.StatusInternalServerError, "decode_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
