package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amara-naturals/storefront-backend/api/controllers"
	"github.com/amara-naturals/storefront-backend/api/middleware"
	authsvc "github.com/amara-naturals/storefront-backend/internal/auth"
	cartsvc "github.com/amara-naturals/storefront-backend/internal/cart"
	"github.com/amara-naturals/storefront-backend/internal/catalog"
	mediasvc "github.com/amara-naturals/storefront-backend/internal/media"
	"github.com/amara-naturals/storefront-backend/internal/order"
	productsvc "github.com/amara-naturals/storefront-backend/internal/products"
	"github.com/amara-naturals/storefront-backend/pkg/config"
	"github.com/amara-naturals/storefront-backend/pkg/logger"
	"github.com/amara-naturals/storefront-backend/pkg/metrics"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	Pingers        map[string]controllers.Pinger
	Catalog        *catalog.Store
	CartService    cartsvc.Service
	OrderFormatter *order.Formatter
	AuthService    authsvc.Service
	ProductService productsvc.Service
	MediaService   mediasvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.CORS(),
		middleware.Logging(p.Logger, p.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.Pingers))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListCatalog(p.Catalog, p.Logger))
		r.Get("/products/tags", controllers.ListCatalogTags(p.Catalog, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(p.Logger))

			r.Get("/cart", controllers.GetCart(p.CartService, p.Logger))
			r.Delete("/cart", controllers.ClearCart(p.CartService, p.Logger))
			r.Put("/cart/items/{productId}", controllers.SetCartQuantity(p.CartService, p.Logger))
			r.Delete("/cart/items/{productId}", controllers.RemoveCartItem(p.CartService, p.Logger))
			r.Get("/cart/summary", controllers.CartSummary(p.CartService, p.OrderFormatter, p.Logger))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(p.AuthService, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(p.Config.JWT, p.Logger))

			r.Get("/products", controllers.AdminListProducts(p.ProductService, p.Logger))
			r.Post("/products", controllers.AdminCreateProduct(p.ProductService, p.Logger))
			r.Get("/products/{productId}", controllers.AdminGetProduct(p.ProductService, p.Logger))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(p.ProductService, p.Logger))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(p.ProductService, p.Logger))
			r.Put("/products/{productId}/image", controllers.AdminUploadProductImage(p.MediaService, p.Logger))
			r.Delete("/products/{productId}/image", controllers.AdminDeleteProductImage(p.MediaService, p.Logger))
		})
	})

	return r
}
