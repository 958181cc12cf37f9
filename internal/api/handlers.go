package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/bazaarlink/internal/api/middleware"
	"github.com/example/bazaarlink/internal/command"
	"github.com/example/bazaarlink/internal/domain/order"
	"github.com/example/bazaarlink/internal/domain/product"
	"github.com/example/bazaarlink/internal/domain/review"
	"github.com/example/bazaarlink/internal/query"
	"github.com/example/bazaarlink/internal/restock"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	predictor    *restock.Predictor
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, predictor *restock.Predictor) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		predictor:    predictor,
	}
}

// Catalog Handlers

// GetProducts returns the vendor-facing catalog of available products
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListAvailableProducts())
}

func (h *Handlers) GetSuppliers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListSuppliers())
}

// Review Handlers

func (h *Handlers) GetSupplierReviews(w http.ResponseWriter, r *http.Request) {
	supplierID := extractPathParam(r.URL.Path, "/suppliers/")
	supplierID = strings.TrimSuffix(supplierID, "/reviews")
	respondJSON(w, http.StatusOK, h.queryHandler.ListSupplierReviews(supplierID))
}

func (h *Handlers) LeaveReview(w http.ResponseWriter, r *http.Request) {
	supplierID := extractPathParam(r.URL.Path, "/suppliers/")
	supplierID = strings.TrimSuffix(supplierID, "/reviews")

	var cmd command.LeaveReview
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.VendorID = middleware.GetUserID(r.Context())
	cmd.SupplierID = supplierID

	rev, err := h.cmdHandler.LeaveReview(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, rev)
}

// Order Handlers

// PlaceOrder places an individual order for the authenticated vendor
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.placeOrder(w, r, order.KindIndividual)
}

// PlaceGroupOrder places a group order, pooling vendors' quantities into one
// order placed by the initiating vendor
func (h *Handlers) PlaceGroupOrder(w http.ResponseWriter, r *http.Request) {
	h.placeOrder(w, r, order.KindGroup)
}

func (h *Handlers) placeOrder(w http.ResponseWriter, r *http.Request, kind order.Kind) {
	var cmd command.PlaceOrder
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.VendorID = middleware.GetUserID(r.Context())
	cmd.Kind = kind

	o, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// GetOrders lists the caller's orders: placed orders for a vendor, incoming
// orders for a supplier
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if claims.Role == "supplier" {
		respondJSON(w, http.StatusOK, h.queryHandler.ListOrdersBySupplier(claims.UserID))
		return
	}
	respondJSON(w, http.StatusOK, h.queryHandler.ListOrdersByVendor(claims.UserID))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}

	// Only the two parties to the order may see it. Anyone else gets the
	// same not-found as a nonexistent order.
	userID := middleware.GetUserID(r.Context())
	if o.VendorID != userID && o.SupplierID != userID {
		respondJSONError(w, "Order not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/confirm")

	cmd := command.ConfirmOrder{
		SupplierID: middleware.GetUserID(r.Context()),
		OrderID:    id,
	}
	if err := h.cmdHandler.ConfirmOrder(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order confirmed"})
}

func (h *Handlers) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/fulfill")

	cmd := command.FulfillOrder{
		SupplierID: middleware.GetUserID(r.Context()),
		OrderID:    id,
	}
	if err := h.cmdHandler.FulfillOrder(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order delivered"})
}

// Supplier Product Handlers

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.SupplierID = middleware.GetUserID(r.Context())

	p, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// GetSupplierProducts lists every product the supplier owns, sold out included
func (h *Handlers) GetSupplierProducts(w http.ResponseWriter, r *http.Request) {
	supplierID := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, h.queryHandler.ListSupplierProducts(supplierID))
}

func (h *Handlers) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	supplierID := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, h.queryHandler.ListLowStockProducts(supplierID))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/supplier/products/")

	var cmd command.UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.SupplierID = middleware.GetUserID(r.Context())
	cmd.ProductID = id

	if err := h.cmdHandler.UpdateProduct(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

func (h *Handlers) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/supplier/products/")
	id = strings.TrimSuffix(id, "/restock")

	var cmd command.RestockProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cmd.SupplierID = middleware.GetUserID(r.Context())
	cmd.ProductID = id

	if err := h.cmdHandler.RestockProduct(r.Context(), cmd); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product restocked"})
}

// GetProductHistory returns a product's stock movement ledger
func (h *Handlers) GetProductHistory(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/supplier/products/")
	id = strings.TrimSuffix(id, "/history")

	supplierID := middleware.GetUserID(r.Context())
	history, err := h.cmdHandler.ProductHistory(r.Context(), supplierID, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GetRestockSuggestions returns restock suggestions for the supplier's
// low-stock products
func (h *Handlers) GetRestockSuggestions(w http.ResponseWriter, r *http.Request) {
	supplierID := middleware.GetUserID(r.Context())
	prediction, err := h.predictor.Predict(supplierID)
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// respondDomainError maps domain errors to HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound), errors.Is(err, order.ErrOrderNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, product.ErrInsufficientStock):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrOrderDelivered), errors.Is(err, order.ErrInvalidStatus):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidItemAmount),
		errors.Is(err, review.ErrInvalidRating):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
