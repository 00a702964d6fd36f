package billing

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haulbooks/haulbooks/internal/platform/httpx"
)

// Handler manages invoice and payment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/invoices", func(ir chi.Router) {
		ir.Get("/", h.listInvoices)
		ir.Post("/", h.createInvoice)
		ir.Get("/{id}", h.getInvoice)
		ir.Delete("/{id}", h.removeInvoice)
		ir.Get("/{id}/payments", h.listPayments)
	})
	r.Route("/payments", func(pr chi.Router) {
		pr.Post("/", h.recordPayment)
		pr.Get("/{id}", h.getPayment)
		pr.Put("/{id}", h.updatePayment)
		pr.Delete("/{id}", h.removePayment)
	})
}

type invoiceRequest struct {
	InvoiceNo    string  `json:"invoice_no" validate:"required"`
	ContractorID int64   `json:"contractor_id" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	TotalAmount  float64 `json:"total_amount" validate:"required,gt=0"`
	TripIDs      []int64 `json:"trip_ids"`
}

type paymentRequest struct {
	InvoiceID      int64   `json:"invoice_id" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=full partial"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	ChequeNo       string  `json:"cheque_no"`
	BankName       string  `json:"bank_name"`
	ChequeImageURL string  `json:"cheque_image_url"`
}

func (req paymentRequest) toInput() (RecordPaymentInput, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return RecordPaymentInput{}, err
	}
	return RecordPaymentInput{
		InvoiceID:      req.InvoiceID,
		Date:           date,
		Type:           PaymentType(req.Type),
		Amount:         req.Amount,
		ChequeNo:       req.ChequeNo,
		BankName:       req.BankName,
		ChequeImageURL: req.ChequeImageURL,
	}, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	contractorID, _ := strconv.ParseInt(r.URL.Query().Get("contractor_id"), 10, 64)
	list, err := h.service.ListInvoices(r.Context(), contractorID)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, list)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, invoice)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be YYYY-MM-DD")
		return
	}
	invoice, err := h.service.CreateInvoice(r.Context(), CreateInvoiceInput{
		InvoiceNo:    req.InvoiceNo,
		ContractorID: req.ContractorID,
		Date:         date,
		TotalAmount:  req.TotalAmount,
		TripIDs:      req.TripIDs,
	})
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, invoice)
}

func (h *Handler) removeInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	if err := h.service.DeleteInvoice(r.Context(), id); err != nil {
		h.logger.Error("delete invoice", slog.Any("error", err), slog.Int64("id", id))
		httpx.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, payments)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
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
	payment, err := h.service.RecordPayment(r.Context(), input)
	if err != nil {
		h.logger.Error("record payment", slog.Any("error", err))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, payment)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payment id")
		return
	}
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, payment)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payment id")
		return
	}
	var req paymentRequest
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
	payment, err := h.service.UpdatePayment(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update payment", slog.Any("error", err), slog.Int64("id", id))
		httpx.Fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, payment)
}

func (h *Handler) removePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payment id")
		return
	}
	if err := h.service.DeletePayment(r.Context(), id); err != nil {
		h.logger.Error("delete payment", slog.Any("error", err), slog.Int64("id", id))
		httpx.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
