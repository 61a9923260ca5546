package athletes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := &Service{Repo: NewMemoryRepo()}
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router, svc
}

func TestCreateAthlete(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"name":"Sifan Hassan","sport":"athletics","country":"NL","heightCm":170}`
	req := httptest.NewRequest(http.MethodPost, "/api/athletes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AthleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AthleteID == 0 {
		t.Fatalf("expected assigned id")
	}
	if resp.Name != "Sifan Hassan" {
		t.Fatalf("unexpected name: %s", resp.Name)
	}
	if resp.HeightCm == nil || *resp.HeightCm != 170 {
		t.Fatalf("unexpected height: %v", resp.HeightCm)
	}
}

func TestCreateAthleteRequiresName(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"sport":"athletics"}`
	req := httptest.NewRequest(http.MethodPost, "/api/athletes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAthleteRejectsBadMeasurements(t *testing.T) {
	_, svc := newTestRouter()

	height := 500.0
	_, err := svc.Create(context.Background(), CreateInput{Name: "X", Sport: "rowing", HeightCm: &height})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateAthletePartial(t *testing.T) {
	router, svc := newTestRouter()

	record, err := svc.Create(context.Background(), CreateInput{Name: "A", Sport: "judo", Country: "FR"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body := `{"nickName":"Ace"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/athletes/1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AthleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NickName != "Ace" {
		t.Fatalf("unexpected nickname: %s", resp.NickName)
	}
	if resp.Country != record.Country {
		t.Fatalf("untouched field changed: %s", resp.Country)
	}
}

func TestDeleteAthleteSoft(t *testing.T) {
	router, svc := newTestRouter()

	if _, err := svc.Create(context.Background(), CreateInput{Name: "A", Sport: "judo"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/athletes/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/athletes/1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestListAthletesFilterBySport(t *testing.T) {
	router, svc := newTestRouter()

	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateInput{Name: "A", Sport: "judo"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "B", Sport: "rowing"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/athletes?sport=rowing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []AthleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Name != "B" {
		t.Fatalf("unexpected filtered result: %+v", resp)
	}
}
