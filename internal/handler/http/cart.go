package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/enderNT/inventory-management/internal/service"
	"github.com/enderNT/inventory-management/pkg/httputil"
	"github.com/enderNT/inventory-management/pkg/validator"
)

// CartHandler handles HTTP requests for register cart endpoints. Every route
// requires the X-Register-ID header so each till works against its own cart.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SetCustomerRequest is the JSON request body for setting the cart customer.
type SetCustomerRequest struct {
	Customer string `json:"customer"`
}

// AddProductRequest is the JSON request body for adding a product to the cart.
type AddProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// UpdateQuantityRequest is the JSON request body for changing a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
// @Summary Get the register's cart
// @Description Returns the current cart snapshot for the register.
// @Tags cart
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Get(registerID)})
}

// StartCart handles POST /api/v1/cart/start
// @Summary Start a new sale
// @Description Resets the register's cart to an empty state.
// @Tags cart
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/cart/start [post]
func (h *CartHandler) StartCart(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Start(registerID)})
}

// SetCustomer handles PUT /api/v1/cart/customer
// @Summary Set the cart customer
// @Description Stores the customer identifier on the register's cart.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Param request body SetCustomerRequest true "Customer data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/cart/customer [put]
func (h *CartHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SetCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.SetCustomer(registerID, req.Customer)})
}

// AddProduct handles POST /api/v1/cart/items
// @Summary Add a product to the cart
// @Description Adds one unit of the product, capturing the catalog price on first add.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Param request body AddProductRequest true "Product reference"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	snap, err := h.service.AddProduct(r.Context(), registerID, req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}
// @Summary Update a line quantity
// @Description Sets the quantity of a cart line. Quantities below 1 leave the line unchanged.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Param productId path string true "Product UUID"
// @Param request body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	snap, err := h.service.UpdateQuantity(registerID, productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snap})
}

// RemoveProduct handles DELETE /api/v1/cart/items/{productId}
// @Summary Remove a cart line
// @Description Deletes the line for the given product; removing an absent line is a no-op.
// @Tags cart
// @Produce json
// @Param X-Register-ID header string true "Register identifier"
// @Param productId path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/cart/items/{productId} [delete]
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	registerID, ok := h.requireRegisterID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id is required"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.RemoveProduct(registerID, productID)})
}

// requireRegisterID extracts the X-Register-ID header, writing a 400 response
// when missing. Returns the register ID and true if present.
func (h *CartHandler) requireRegisterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	registerID := getRegisterID(r)
	if registerID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Register-ID header is required"},
		})
		return "", false
	}
	return registerID, true
}
