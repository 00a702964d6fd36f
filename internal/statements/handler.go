package statements

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Handler manages statement endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers statement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.generate)
	r.Get("/{id}", h.get)
}

type generateRequest struct {
	ContractorID int64   `json:"contractor_id" validate:"required"`
	SiteID       int64   `json:"site_id" validate:"required"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InvoiceIDs   []int64 `json:"invoice_ids"`
	PaymentIDs   []int64 `json:"payment_ids"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	contractorID, _ := strconv.ParseInt(r.URL.Query().Get("contractor_id"), 10, 64)
	list, err := h.service.List(r.Context(), contractorID)
	if err != nil {
		h.logger.Error("list statements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	statement, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, statement)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	statement, err := h.service.Generate(r.Context(), GenerateInput{
		ContractorID: req.ContractorID,
		SiteID:       req.SiteID,
		Name:         req.Name,
		Type:         req.Type,
		InvoiceIDs:   req.InvoiceIDs,
		PaymentIDs:   req.PaymentIDs,
	})
	if err != nil {
		h.logger.Error("generate statement", slog.Any("error", err))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, statement)
}
