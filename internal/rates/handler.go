package rates

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

const (
	reportRateLimit  = 10
	reportRateWindow = time.Minute
)

// Handler manages price list and report endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers rate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(reportRateLimit, reportRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)

	// Report endpoints walk the full trip table; keep them rate limited.
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/revenue", h.revenue)
		gr.Get("/conflicts", h.conflicts)
		gr.Get("/mismatches", h.mismatches)
	})
}

type rateRequest struct {
	SiteID       int64   `json:"site_id" validate:"required"`
	Material     string  `json:"material" validate:"required"`
	LocationFrom string  `json:"location_from" validate:"required"`
	LocationTo   string  `json:"location_to" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Unit         string  `json:"unit" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRates(r.Context())
	if err != nil {
		h.logger.Error("list rates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid rate id")
		return
	}
	rate, err := h.service.GetRate(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rate)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rate, err := h.service.CreateRate(r.Context(), CreateRateInput{
		SiteID:       req.SiteID,
		Material:     req.Material,
		LocationFrom: req.LocationFrom,
		LocationTo:   req.LocationTo,
		Price:        req.Price,
		Unit:         ParseRateUnit(req.Unit),
	})
	if err != nil {
		h.logger.Error("create rate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rate)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid rate id")
		return
	}
	var req rateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rate, err := h.service.UpdateRate(r.Context(), id, CreateRateInput{
		SiteID:       req.SiteID,
		Material:     req.Material,
		LocationFrom: req.LocationFrom,
		LocationTo:   req.LocationTo,
		Price:        req.Price,
		Unit:         ParseRateUnit(req.Unit),
	})
	if err != nil {
		h.logger.Error("update rate", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rate)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid rate id")
		return
	}
	if err := h.service.DeleteRate(r.Context(), id); err != nil {
		h.logger.Error("delete rate", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	est, err := h.service.EstimateRevenue(r.Context())
	if err != nil {
		h.logger.Error("revenue estimate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, est)
}

func (h *Handler) conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.service.ConflictReport(r.Context())
	if err != nil {
		h.logger.Error("conflict report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"conflicts": conflicts,
		"count":     len(conflicts),
	})
}

func (h *Handler) mismatches(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MismatchReport(r.Context())
	if err != nil {
		h.logger.Error("mismatch report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
