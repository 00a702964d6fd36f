package contractors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Handler manages contractor and site endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers contractor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)

	r.Route("/sites", func(sr chi.Router) {
		sr.Get("/", h.listSites)
		sr.Post("/", h.createSite)
		sr.Get("/{id}", h.getSite)
		sr.Put("/{id}", h.updateSite)
		sr.Delete("/{id}", h.removeSite)
	})
}

type contractorRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	TRN   string `json:"trn"`
}

type siteRequest struct {
	ContractorID int64  `json:"contractor_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Location     string `json:"location"`
	LPONo        string `json:"lpo_no"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListContractors(r.Context())
	if err != nil {
		h.logger.Error("list contractors", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contractor id")
		return
	}
	contractor, err := h.service.GetContractor(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contractor)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req contractorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	contractor, err := h.service.CreateContractor(r.Context(), CreateContractorInput{
		Name:  req.Name,
		Phone: req.Phone,
		TRN:   req.TRN,
	})
	if err != nil {
		h.logger.Error("create contractor", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, contractor)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contractor id")
		return
	}
	var req contractorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	contractor, err := h.service.UpdateContractor(r.Context(), id, CreateContractorInput{
		Name:  req.Name,
		Phone: req.Phone,
		TRN:   req.TRN,
	})
	if err != nil {
		h.logger.Error("update contractor", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contractor)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid contractor id")
		return
	}
	if err := h.service.DeleteContractor(r.Context(), id); err != nil {
		h.logger.Error("delete contractor", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	contractorID, _ := strconv.ParseInt(r.URL.Query().Get("contractor_id"), 10, 64)
	list, err := h.service.ListSites(r.Context(), contractorID)
	if err != nil {
		h.logger.Error("list sites", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid site id")
		return
	}
	site, err := h.service.GetSite(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, site)
}

func (h *Handler) createSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	site, err := h.service.CreateSite(r.Context(), CreateSiteInput{
		ContractorID: req.ContractorID,
		Name:         req.Name,
		Location:     req.Location,
		LPONo:        req.LPONo,
	})
	if err != nil {
		h.logger.Error("create site", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, site)
}

func (h *Handler) updateSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid site id")
		return
	}
	var req siteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	site, err := h.service.UpdateSite(r.Context(), id, CreateSiteInput{
		ContractorID: req.ContractorID,
		Name:         req.Name,
		Location:     req.Location,
		LPONo:        req.LPONo,
	})
	if err != nil {
		h.logger.Error("update site", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, site)
}

func (h *Handler) removeSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid site id")
		return
	}
	if err := h.service.DeleteSite(r.Context(), id); err != nil {
		h.logger.Error("delete site", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
