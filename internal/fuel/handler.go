package fuel

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Handler manages diesel tracking endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers diesel routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type dieselRequest struct {
	Date      string  `json:"date" validate:"required"`
	VehicleID int64   `json:"vehicle_id" validate:"required"`
	DriverID  int64   `json:"driver_id" validate:"required"`
	Liters    float64 `json:"liters" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Station   string  `json:"station"`
	Odometer  int64   `json:"odometer" validate:"gte=0"`
}

func (req dieselRequest) toInput() (CreateDieselInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return CreateDieselInput{}, err
	}
	return CreateDieselInput{
		Date:      date,
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		Liters:    req.Liters,
		Amount:    req.Amount,
		Station:   req.Station,
		Odometer:  req.Odometer,
	}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	vehicleID, _ := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	list, err := h.service.ListRecords(r.Context(), vehicleID)
	if err != nil {
		h.logger.Error("list diesel records", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.MonthlySummaries(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Error("fuel summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summaries)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid record id")
		return
	}
	record, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req dieselRequest
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
	record, err := h.service.CreateRecord(r.Context(), input)
	if err != nil {
		h.logger.Error("create diesel record", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid record id")
		return
	}
	var req dieselRequest
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
	record, err := h.service.UpdateRecord(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update diesel record", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid record id")
		return
	}
	if err := h.service.DeleteRecord(r.Context(), id); err != nil {
		h.logger.Error("delete diesel record", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
