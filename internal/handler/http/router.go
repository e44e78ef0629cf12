package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enderNT/inventory-management/internal/service"
	"github.com/enderNT/inventory-management/pkg/health"
	"github.com/enderNT/inventory-management/pkg/middleware"
)

// NewRouter creates a chi router with all point-of-sale routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	cartService *service.CartService,
	saleService *service.SaleService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("pos"))
	r.Use(middleware.Tracing("pos"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Product catalog endpoints
	productHandler := NewProductHandler(catalogService, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Register cart endpoints
	cartHandler := NewCartHandler(cartService, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", cartHandler.GetCart)
		r.Post("/start", cartHandler.StartCart)
		r.Put("/customer", cartHandler.SetCustomer)

		r.Post("/items", cartHandler.AddProduct)
		r.Put("/items/{productId}", cartHandler.UpdateQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveProduct)
	})

	// Sale endpoints
	saleHandler := NewSaleHandler(saleService, cartService, logger)

	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", saleHandler.SubmitSale)
		r.Get("/", saleHandler.ListSales)
		r.Get("/{id}", saleHandler.GetSale)
	})

	return r
}
