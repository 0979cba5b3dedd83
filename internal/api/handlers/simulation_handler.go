package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/creasty/defaults"
	"github.com/fashionbi/growth-engine/internal/domain"
	"github.com/fashionbi/growth-engine/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// SimulationRequest is the wire form of one simulation call. Growth
// percentage is the only required field; everything else falls back to the
// documented defaults. Caps of 0 mean unconstrained.
type SimulationRequest struct {
	StoreID            int64    `json:"store_id" validate:"required,gt=0"`
	GrowthPct          *float64 `json:"growth_pct" validate:"required,gte=-100,lte=500"`
	HorizonMonths      int      `json:"horizon_months" default:"3" validate:"gte=0,lte=24"`
	DOCHero            float64  `json:"doc_hero" default:"60" validate:"gte=0,lte=365"`
	DOCNonHero         float64  `json:"doc_non_hero" default:"30" validate:"gte=0,lte=365"`
	SafetyStockPct     float64  `json:"safety_stock_pct" default:"15" validate:"gte=0,lte=100"`
	CashCap            float64  `json:"cash_cap" validate:"gte=0"`
	CapacityCap        float64  `json:"capacity_cap" validate:"gte=0"`
	OverstockThreshold float64  `json:"overstock_threshold" default:"1.5" validate:"gte=0"`
}

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// Simulate handles POST /api/v1/analytics/growth_simulation. Parameter
// validation happens before any data is fetched.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := defaults.Set(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.StructCtx(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	params := domain.SimulationParams{
		GrowthPct:               *req.GrowthPct,
		HorizonMonths:           req.HorizonMonths,
		DOCTargetHero:           req.DOCHero,
		DOCTargetNonHero:        req.DOCNonHero,
		SafetyStockPct:          req.SafetyStockPct,
		CashCap:                 req.CashCap,
		CapacityCap:             req.CapacityCap,
		OverstockThresholdRatio: req.OverstockThreshold,
	}

	resp, err := h.service.Simulate(c.Request.Context(), req.StoreID, params)
	if err != nil {
		log.Error().Err(err).Int64("store_id", req.StoreID).Msg("simulation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
		return
	}

	if resp == nil {
		// Distinguished empty outcome: not enough fashion-mapped data to
		// simulate, which is not an error.
		c.JSON(http.StatusOK, gin.H{
			"simulation":   nil,
			"growth_shape": nil,
			"reason":       "insufficient_data",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Defaults handles GET /api/v1/analytics/growth_simulation/defaults: the
// parameter defaults the UI pre-fills.
func (h *SimulationHandler) Defaults(c *gin.Context) {
	var req SimulationRequest
	_ = defaults.Set(&req)

	cfg := h.service.EngineConfig()
	c.JSON(http.StatusOK, gin.H{
		"horizon_months":        req.HorizonMonths,
		"doc_hero":              req.DOCHero,
		"doc_non_hero":          req.DOCNonHero,
		"safety_stock_pct":      req.SafetyStockPct,
		"overstock_threshold":   req.OverstockThreshold,
		"hero_score_threshold":  cfg.HeroScoreThreshold,
		"hero_margin_threshold": cfg.HeroMarginThreshold,
	})
}

// Invalidate handles POST /api/v1/analytics/growth_simulation/invalidate.
// A store_id of 0 drops every cached result.
func (h *SimulationHandler) Invalidate(c *gin.Context) {
	var req struct {
		StoreID int64 `json:"store_id" validate:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.StructCtx(c.Request.Context(), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	if err := h.service.InvalidateCache(c.Request.Context(), req.StoreID); err != nil {
		log.Error().Err(err).Int64("store_id", req.StoreID).Msg("cache invalidation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache invalidation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validationMessage flattens validator errors into one readable message.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed validation: %s", field, e.Tag()))
		}
	}

	return strings.Join(parts, "; ")
}
