package trips

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
	"github.com/haulbooks/haulbooks/internal/shared"
)

// Handler manages trip endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers trip routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type tripRequest struct {
	Date         string `json:"date" validate:"required"`
	MaterialType string `json:"material_type" validate:"required"`
	FromLocation string `json:"from_location" validate:"required"`
	ToLocation   string `json:"to_location" validate:"required"`
	DriverID     int64  `json:"driver_id" validate:"required"`
	VehicleID    int64  `json:"vehicle_id" validate:"required"`
}

func (req tripRequest) toInput() (CreateTripInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return CreateTripInput{}, err
	}
	return CreateTripInput{
		Date:         date,
		MaterialType: req.MaterialType,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		DriverID:     req.DriverID,
		VehicleID:    req.VehicleID,
	}, nil
}

func parseListRequest(r *http.Request) ListTripsRequest {
	q := r.URL.Query()
	var req ListTripsRequest
	req.DriverID, _ = strconv.ParseInt(q.Get("driver_id"), 10, 64)
	req.VehicleID, _ = strconv.ParseInt(q.Get("vehicle_id"), 10, 64)
	req.InvoiceID, _ = strconv.ParseInt(q.Get("invoice_id"), 10, 64)
	req.Unbilled = q.Get("unbilled") == "true"
	if v := q.Get("from"); v != "" {
		req.FromDate, _ = time.Parse("2006-01-02", v)
	}
	if v := q.Get("to"); v != "" {
		req.ToDate, _ = time.Parse("2006-01-02", v)
	}
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	p := shared.NewPagination(page, perPage, 0)
	req.Limit = p.PerPage
	req.Offset = p.Offset()
	return req
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListTrips(r.Context(), parseListRequest(r))
	if err != nil {
		h.logger.Error("list trips", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}
	trip, err := h.service.GetTrip(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trip)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be YYYY-MM-DD")
		return
	}
	trip, err := h.service.CreateTrip(r.Context(), input)
	if err != nil {
		h.logger.Error("create trip", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, trip)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}
	var req tripRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be YYYY-MM-DD")
		return
	}
	trip, err := h.service.UpdateTrip(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update trip", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, trip)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid trip id")
		return
	}
	if err := h.service.DeleteTrip(r.Context(), id); err != nil {
		h.logger.Error("delete trip", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
