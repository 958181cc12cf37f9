package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/bazaarlink/internal/api/middleware"
	"github.com/example/bazaarlink/internal/auth"
)

// RouterConfig bundles everything the router needs
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authMW := middleware.AuthMiddleware(cfg.JWTService)
	vendorOnly := func(h http.HandlerFunc) http.Handler {
		return authMW(middleware.RequireRole("vendor")(h))
	}
	supplierOnly := func(h http.HandlerFunc) http.Handler {
		return authMW(middleware.RequireRole("supplier")(h))
	}

	// Auth
	mux.HandleFunc("/auth/register", methodOnly(http.MethodPost, cfg.AuthHandlers.Register))
	mux.HandleFunc("/auth/login", methodOnly(http.MethodPost, cfg.AuthHandlers.Login))
	mux.HandleFunc("/auth/logout", methodOnly(http.MethodPost, cfg.AuthHandlers.Logout))
	mux.HandleFunc("/auth/refresh", methodOnly(http.MethodPost, cfg.AuthHandlers.Refresh))
	mux.Handle("/auth/me", authMW(methodOnly(http.MethodGet, cfg.AuthHandlers.Me)))
	mux.Handle("/auth/kyc", authMW(methodOnly(http.MethodPost, cfg.AuthHandlers.SubmitKYC)))

	// Catalog (public)
	mux.HandleFunc("/products", methodOnly(http.MethodGet, cfg.Handlers.GetProducts))
	mux.HandleFunc("/suppliers", methodOnly(http.MethodGet, cfg.Handlers.GetSuppliers))

	// Supplier reviews: reads are public, writes are vendor-only
	mux.HandleFunc("/suppliers/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/reviews") && r.Method == http.MethodGet:
			cfg.Handlers.GetSupplierReviews(w, r)
		case strings.HasSuffix(r.URL.Path, "/reviews") && r.Method == http.MethodPost:
			vendorOnly(cfg.Handlers.LeaveReview).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Orders
	mux.Handle("/orders", authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetOrders(w, r)
		case http.MethodPost:
			middleware.RequireRole("vendor")(http.HandlerFunc(cfg.Handlers.PlaceOrder)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/orders/group", vendorOnly(cfg.Handlers.PlaceGroupOrder))

	mux.Handle("/orders/", authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/confirm") && r.Method == http.MethodPost:
			middleware.RequireRole("supplier")(http.HandlerFunc(cfg.Handlers.ConfirmOrder)).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/fulfill") && r.Method == http.MethodPost:
			middleware.RequireRole("supplier")(http.HandlerFunc(cfg.Handlers.FulfillOrder)).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			cfg.Handlers.GetOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Supplier catalog management
	mux.Handle("/supplier/products", supplierOnly(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetSupplierProducts(w, r)
		case http.MethodPost:
			cfg.Handlers.CreateProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle("/supplier/products/low-stock", supplierOnly(methodOnly(http.MethodGet, cfg.Handlers.GetLowStockProducts)))
	mux.Handle("/supplier/restock-suggestions", supplierOnly(methodOnly(http.MethodGet, cfg.Handlers.GetRestockSuggestions)))

	mux.Handle("/supplier/products/", supplierOnly(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/restock") && r.Method == http.MethodPost:
			cfg.Handlers.RestockProduct(w, r)
		case strings.HasSuffix(path, "/history") && r.Method == http.MethodGet:
			cfg.Handlers.GetProductHistory(w, r)
		case r.Method == http.MethodPatch:
			cfg.Handlers.UpdateProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	return withLogging(mux)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
