package fleet

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Handler manages vehicle and driver endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/vehicles", func(vr chi.Router) {
		vr.Get("/", h.listVehicles)
		vr.Post("/", h.createVehicle)
		vr.Get("/{id}", h.getVehicle)
		vr.Put("/{id}", h.updateVehicle)
		vr.Delete("/{id}", h.removeVehicle)
	})
	r.Route("/drivers", func(dr chi.Router) {
		dr.Get("/", h.listDrivers)
		dr.Post("/", h.createDriver)
		dr.Get("/{id}", h.getDriver)
		dr.Put("/{id}", h.updateDriver)
		dr.Delete("/{id}", h.removeDriver)
	})
}

type vehicleRequest struct {
	PlateNo  string `json:"plate_no" validate:"required"`
	Make     string `json:"make"`
	Capacity string `json:"capacity"`
	Active   bool   `json:"active"`
}

type driverRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
	Active    bool   `json:"active"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListVehicles(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		h.logger.Error("list vehicles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid vehicle id")
		return
	}
	vehicle, err := h.service.GetVehicle(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vehicle, err := h.service.CreateVehicle(r.Context(), CreateVehicleInput{
		PlateNo:  req.PlateNo,
		Make:     req.Make,
		Capacity: req.Capacity,
		Active:   req.Active,
	})
	if err != nil {
		h.logger.Error("create vehicle", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vehicle)
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid vehicle id")
		return
	}
	var req vehicleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vehicle, err := h.service.UpdateVehicle(r.Context(), id, CreateVehicleInput{
		PlateNo:  req.PlateNo,
		Make:     req.Make,
		Capacity: req.Capacity,
		Active:   req.Active,
	})
	if err != nil {
		h.logger.Error("update vehicle", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vehicle)
}

func (h *Handler) removeVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid vehicle id")
		return
	}
	if err := h.service.DeleteVehicle(r.Context(), id); err != nil {
		h.logger.Error("delete vehicle", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDrivers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListDrivers(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		h.logger.Error("list drivers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid driver id")
		return
	}
	driver, err := h.service.GetDriver(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, driver)
}

func (h *Handler) createDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	driver, err := h.service.CreateDriver(r.Context(), CreateDriverInput{
		Name:      req.Name,
		Phone:     req.Phone,
		LicenseNo: req.LicenseNo,
		Active:    req.Active,
	})
	if err != nil {
		h.logger.Error("create driver", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, driver)
}

func (h *Handler) updateDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid driver id")
		return
	}
	var req driverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	driver, err := h.service.UpdateDriver(r.Context(), id, CreateDriverInput{
		Name:      req.Name,
		Phone:     req.Phone,
		LicenseNo: req.LicenseNo,
		Active:    req.Active,
	})
	if err != nil {
		h.logger.Error("update driver", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, driver)
}

func (h *Handler) removeDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid driver id")
		return
	}
	if err := h.service.DeleteDriver(r.Context(), id); err != nil {
		h.logger.Error("delete driver", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
