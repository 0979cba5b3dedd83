package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fashionbi/growth-engine/internal/domain"
	"github.com/fashionbi/growth-engine/internal/service"
	"github.com/gin-gonic/gin"
)

type emptySnapshotRepo struct{}

func (emptySnapshotRepo) GetDailyRevenue(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DailyRevenue, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetSkuSummaries(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuSummary, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetFamilyCodes(ctx context.Context, filter domain.SnapshotFilter) ([]domain.FamilyCode, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetSkuMappings(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuMapping, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetInventory(ctx context.Context, filter domain.SnapshotFilter) ([]domain.InventoryRow, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetDemand(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DemandRow, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetOrderLines(ctx context.Context, filter domain.SnapshotFilter) ([]domain.OrderLine, error) {
	return nil, nil
}
func (emptySnapshotRepo) GetManualHeroCodes(ctx context.Context, filter domain.SnapshotFilter) ([]string, error) {
	return nil, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewSimulationService(emptySnapshotRepo{}, nil, nil, 90, 30)
	handler := NewSimulationHandler(svc)

	router := gin.New()
	router.POST("/simulate", handler.Simulate)
	router.GET("/defaults", handler.Defaults)
	router.POST("/invalidate", handler.Invalidate)
	return router
}

func postSimulate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSimulateRejectsInvalidBody(t *testing.T) {
	router := newTestRouter()

	w := postSimulate(t, router, "{not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSimulateValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name         string
		body         string
		wantFragment string
	}{
		{"MissingGrowthPct", `{"store_id": 1}`, "required"},
		{"MissingStoreID", `{"growth_pct": 20}`, "required"},
		{"StoreIDZero", `{"store_id": 0, "growth_pct": 20}`, "required"},
		{"GrowthTooLow", `{"store_id": 1, "growth_pct": -150}`, "at least -100"},
		{"GrowthTooHigh", `{"store_id": 1, "growth_pct": 900}`, "at most 500"},
		{"NegativeCashCap", `{"store_id": 1, "growth_pct": 20, "cash_cap": -5}`, "at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postSimulate(t, router, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantFragment) {
				t.Errorf("body %q missing %q", w.Body.String(), tt.wantFragment)
			}
		})
	}
}

func TestSimulateInsufficientDataResponse(t *testing.T) {
	router := newTestRouter()

	w := postSimulate(t, router, `{"store_id": 1, "growth_pct": 20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var body struct {
		Simulation  *domain.Simulation  `json:"simulation"`
		GrowthShape *domain.GrowthShape `json:"growth_shape"`
		Reason      string              `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Simulation != nil || body.GrowthShape != nil {
		t.Errorf("expected null sections, got %+v", body)
	}
	if body.Reason != "insufficient_data" {
		t.Errorf("reason = %q, want insufficient_data", body.Reason)
	}
}

func TestInvalidateEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/invalidate", strings.NewReader(`{"store_id": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("body = %s, want ok status", w.Body.String())
	}
}

func TestDefaultsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/defaults", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	want := map[string]float64{
		"horizon_months":        3,
		"doc_hero":              60,
		"doc_non_hero":          30,
		"safety_stock_pct":      15,
		"overstock_threshold":   1.5,
		"hero_score_threshold":  80,
		"hero_margin_threshold": 40,
	}
	for key, wantVal := range want {
		if body[key] != wantVal {
			t.Errorf("%s = %v, want %v", key, body[key], wantVal)
		}
	}
}
