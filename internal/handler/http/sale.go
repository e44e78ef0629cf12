package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/enderNT/inventory-management/internal/service"
	apperrors "github.com/enderNT/inventory-management/pkg/errors"
	"github.com/enderNT/inventory-management/pkg/httputil"
)

// SaleHandler handles HTTP requests for sale submission and the sales ledger.
type SaleHandler struct {
	sales  *service.SaleService
	carts  *service.CartService
	logger *slog.Logger
}

// NewSaleHandler creates a new sale HTTP handler.
func NewSaleHandler(sales *service.SaleService, carts *service.CartService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		sales:  sales,
		carts:  carts,
		logger: logger,
	}
}

// SubmitSale handles POST /api/v1/sales
// @Summary Submit the register's cart as a sale
// @Description Persists the sale, its line items, and decrements stock per line.
// @Description The cart is cleared only when the whole submission succeeds.
// @Tags sales
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/sales [post]
func (h *SaleHandler) SubmitSale(w http.ResponseWriter, r *http.Request) {
	registerID := getRegisterID(r)
	if registerID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Register-ID header is required"},
		})
		return
	}

	snap := h.carts.Get(registerID)

	receipt, err := h.sales.Submit(r.Context(), snap)
	if err != nil {
		var submitErr *service.SubmitError
		if errors.As(err, &submitErr) {
			h.writeSubmitError(w, r, submitErr)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The sale is durable; reset the register's cart for the next customer.
	h.carts.Start(registerID)

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: receipt})
}

// ListSales handles GET /api/v1/sales
// @Summary List sales
// @Description Returns recorded sales with their line items, newest first.
// @Tags sales
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/sales [get]
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sales})
}

// GetSale handles GET /api/v1/sales/{id}
// @Summary Get a sale
// @Description Returns a recorded sale and its line items.
// @Tags sales
// @Produce json
// @Param id path string true "Sale UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/sales/{id} [get]
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "sale id is required"},
		})
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sale})
}

// writeSubmitError renders a failed submission with the stage it stopped at,
// so the till can tell the operator which step to look at.
func (h *SaleHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, submitErr *service.SubmitError) {
	resp := &httputil.ErrorResponse{
		Code:      "SALE_SUBMISSION_FAILED",
		Message:   submitErr.Error(),
		Stage:     string(submitErr.Stage),
		ProductID: submitErr.ProductID,
	}

	status := apperrors.HTTPStatus(submitErr.Err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "sale submission failed",
			slog.String("stage", string(submitErr.Stage)),
			slog.String("product_id", submitErr.ProductID),
			slog.String("error", submitErr.Error()),
		)
	}

	httputil.WriteJSON(w, status, httputil.Response{Error: resp})
}
