package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/catalog"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/parser"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	backend, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	quiet := log.New(io.Discard, "", 0)
	s := store.New(backend, codec.YAML{}, store.WithLogger(quiet))

	c, err := catalog.Parse([]byte("district_to_exercises:\n  legs: [squat]\n  chest: [panca piana]\n"))
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	return NewHandler(s, c, parser.New(parser.WithLogger(quiet)))
}

func serve(t *testing.T, h *Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestCreateSheetThenGetPerson(t *testing.T) {
	h := newTestHandler(t)

	body := `{"name":"Lorenzo","surname":"Rossi","exercises":[{"name":"Squat","reps":5,"weight":100}]}`
	rr := serve(t, h, httptest.NewRequest(http.MethodPost, "/v1/sheets", strings.NewReader(body)))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d: %s", rr.Code, rr.Body.String())
	}

	var created CreateSheetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.SheetID == "" {
		t.Fatalf("expected a sheet id")
	}
	if created.PersonKey != "Lorenzo Rossi" {
		t.Fatalf("unexpected person key %q", created.PersonKey)
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/people/Lorenzo%20Rossi", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var person PersonResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &person); err != nil {
		t.Fatalf("failed to decode person: %v", err)
	}
	if len(person.Exercises) != 1 {
		t.Fatalf("expected 1 exercise got %d", len(person.Exercises))
	}
	if person.Exercises[0].District != "legs" {
		t.Fatalf("expected district resolved from catalog, got %q", person.Exercises[0].District)
	}
	if person.Exercises[0].Volumes[0].Weight != 100 {
		t.Fatalf("unexpected weight %v", person.Exercises[0].Volumes[0].Weight)
	}
}

func TestCreateSheetValidation(t *testing.T) {
	h := newTestHandler(t)

	for _, body := range []string{
		`{"surname":"Rossi","exercises":[{"name":"Squat","reps":5,"weight":100}]}`,
		`{"name":"Lorenzo","exercises":[]}`,
		`{"name":"Lorenzo","exercises":[{"name":"","reps":5,"weight":100}]}`,
		`{"name":"Lorenzo","exercises":[{"name":"Squat","reps":-1,"weight":100}]}`,
		`not json`,
	} {
		rr := serve(t, h, httptest.NewRequest(http.MethodPost, "/v1/sheets", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 got %d", body, rr.Code)
		}
	}
}

func TestSheetLinesIngestsFreeformText(t *testing.T) {
	h := newTestHandler(t)

	body := "Panca piana 60kg x 10\nnota\nSquat 100kg x 5\n"
	rr := serve(t, h, httptest.NewRequest(http.MethodPost, "/v1/sheets/Lorenzo/lines", strings.NewReader(body)))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d: %s", rr.Code, rr.Body.String())
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/people/lorenzo", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var person PersonResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &person); err != nil {
		t.Fatalf("failed to decode person: %v", err)
	}
	if len(person.Exercises) != 2 {
		t.Fatalf("expected 2 exercises got %d", len(person.Exercises))
	}
	if person.Exercises[0].Name != "Panca piana" {
		t.Fatalf("unexpected first exercise %q", person.Exercises[0].Name)
	}
}

func TestSheetLinesRejectsEmptySheet(t *testing.T) {
	h := newTestHandler(t)

	rr := serve(t, h, httptest.NewRequest(http.MethodPost, "/v1/sheets/Lorenzo/lines", strings.NewReader("solo appunti\n")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestGetPersonNotFound(t *testing.T) {
	h := newTestHandler(t)

	rr := serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/people/nessuno", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestCatalogLookups(t *testing.T) {
	h := newTestHandler(t)

	rr := serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/districts/legs/exercises", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "squat") {
		t.Fatalf("expected squat in %s", rr.Body.String())
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/districts/arms/exercises", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/exercises/Squat/district", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "legs") {
		t.Fatalf("expected legs in %s", rr.Body.String())
	}
}

func TestCatalogMutations(t *testing.T) {
	h := newTestHandler(t)

	rr := serve(t, h, httptest.NewRequest(http.MethodPost, "/v1/catalog/exercises",
		strings.NewReader(`{"district":"legs","exercise":"Affondi"}`)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/exercises/affondi/district", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodDelete, "/v1/catalog/exercises",
		strings.NewReader(`{"district":"legs","exercise":"Affondi"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	rr = serve(t, h, httptest.NewRequest(http.MethodGet, "/v1/exercises/affondi/district", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
