package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/models"
	"github.com/aieng/conversations-api/internal/services"
)

type stubModelVersionService struct {
	mv       *models.ModelVersion
	versions []*models.ModelVersion
	err      error

	createCalls int
	listCalls   int

	lastParams services.ListParams
	lastPatch  services.ModelVersionPatch
}

func (s *stubModelVersionService) Create(ctx context.Context, provider, modelName, versionTag string) (*models.ModelVersion, error) {
	s.createCalls++
	return s.mv, s.err
}

func (s *stubModelVersionService) List(ctx context.Context, p services.ListParams) ([]*models.ModelVersion, error) {
	s.listCalls++
	s.lastParams = p
	return s.versions, s.err
}

func (s *stubModelVersionService) Get(ctx context.Context, id uuid.UUID) (*models.ModelVersion, error) {
	return s.mv, s.err
}

func (s *stubModelVersionService) Patch(ctx context.Context, id uuid.UUID, patch services.ModelVersionPatch) (*models.ModelVersion, error) {
	s.lastPatch = patch
	return s.mv, s.err
}

func (s *stubModelVersionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func newModelVersionRouter(svc ModelVersionService) *mux.Router {
	r := mux.NewRouter()
	NewModelVersionHandler(svc, zap.NewNop()).RegisterRoutes(r.PathPrefix("/model-versions").Subrouter())
	return r
}

func testModelVersion() *models.ModelVersion {
	return &models.ModelVersion{
		ID:         uuid.New(),
		Provider:   "ollama",
		ModelName:  "llama3.2:3b",
		VersionTag: "v1",
		CreatedAt:  time.Now().UTC(),
		IsActive:   true,
	}
}

func TestModelVersionHandlerCreate(t *testing.T) {
	t.Parallel()

	svc := &stubModelVersionService{mv: testModelVersion()}
	router := newModelVersionRouter(svc)

	body := `{"provider":"ollama","model_name":"llama3.2:3b","version_tag":"v1"}`
	req := httptest.NewRequest("POST", "/model-versions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", rec.Code, rec.Body.String())
	}
	if svc.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", svc.createCalls)
	}
}

func TestModelVersionHandlerCreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing provider", body: `{"model_name":"llama3.2:3b","version_tag":"v1"}`},
		{name: "blank model name", body: `{"provider":"ollama","model_name":"","version_tag":"v1"}`},
		{name: "missing version tag", body: `{"provider":"ollama","model_name":"llama3.2:3b"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubModelVersionService{mv: testModelVersion()}
			router := newModelVersionRouter(svc)

			req := httptest.NewRequest("POST", "/model-versions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422; body = %s", rec.Code, rec.Body.String())
			}
			if svc.createCalls != 0 {
				t.Errorf("create calls = %d, want 0 when validation fails", svc.createCalls)
			}
		})
	}
}

func TestModelVersionHandlerListOrder(t *testing.T) {
	t.Parallel()

	svc := &stubModelVersionService{versions: []*models.ModelVersion{}}
	router := newModelVersionRouter(svc)

	req := httptest.NewRequest("GET", "/model-versions?order_by=model_name_asc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	if svc.lastParams.OrderBy != "model_name_asc" {
		t.Errorf("order_by = %q, want model_name_asc", svc.lastParams.OrderBy)
	}
}

func TestModelVersionHandlerPatchNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubModelVersionService{err: services.ErrModelVersionNotFound}
	router := newModelVersionRouter(svc)

	req := httptest.NewRequest("PATCH", "/model-versions/"+uuid.NewString(), strings.NewReader(`{"version_tag":"v2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestModelVersionHandlerDelete(t *testing.T) {
	t.Parallel()

	svc := &stubModelVersionService{}
	router := newModelVersionRouter(svc)

	req := httptest.NewRequest("DELETE", "/model-versions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
