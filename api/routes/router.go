package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/team-fruitee/fruitee-backend/api/controllers"
	"github.com/team-fruitee/fruitee-backend/api/middleware"
	"github.com/team-fruitee/fruitee-backend/internal/catalog"
	"github.com/team-fruitee/fruitee-backend/internal/deliverypoints"
	"github.com/team-fruitee/fruitee-backend/internal/grouporders"
	"github.com/team-fruitee/fruitee-backend/internal/orders"
	"github.com/team-fruitee/fruitee-backend/internal/payments"
	"github.com/team-fruitee/fruitee-backend/internal/reporting"
	"github.com/team-fruitee/fruitee-backend/internal/users"
	"github.com/team-fruitee/fruitee-backend/pkg/config"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
	"github.com/team-fruitee/fruitee-backend/pkg/metrics"
)

type Services struct {
	Catalog        catalog.Service
	DeliveryPoints deliverypoints.Service
	Users          users.Service
	GroupOrders    grouporders.Service
	Orders         orders.Service
	Payments       payments.Service
	Reporting      reporting.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Get("/producers", controllers.ListActiveProducers(svcs.Catalog, logg))
		r.Get("/delivery-points", controllers.ListDeliveryPoints(svcs.DeliveryPoints, logg))

		r.Route("/group-orders", func(r chi.Router) {
			r.Get("/open", controllers.ListOpenGroupOrders(svcs.GroupOrders, logg))
			r.Post("/{groupOrderId}/orders", controllers.PlaceOrder(svcs.Orders, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.MyOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.Put("/{orderId}", controllers.EditOrder(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(svcs.Orders, logg))
		})

		r.Route("/coordinator", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleCoordinator), logg))

			r.Route("/producers", func(r chi.Router) {
				r.Get("/", controllers.ListProducers(svcs.Catalog, logg))
				r.Post("/", controllers.CreateProducer(svcs.Catalog, logg))
				r.Get("/{producerId}", controllers.GetProducer(svcs.Catalog, logg))
				r.Patch("/{producerId}", controllers.UpdateProducer(svcs.Catalog, logg))
				r.Post("/{producerId}/active", controllers.SetProducerActive(svcs.Catalog, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(svcs.Catalog, logg))
				r.Post("/{productId}/active", controllers.SetProductActive(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.DeleteProduct(svcs.Catalog, logg))
			})

			r.Route("/delivery-points", func(r chi.Router) {
				r.Get("/", controllers.ListAllDeliveryPoints(svcs.DeliveryPoints, logg))
				r.Post("/", controllers.CreateDeliveryPoint(svcs.DeliveryPoints, logg))
				r.Patch("/{pointId}", controllers.UpdateDeliveryPoint(svcs.DeliveryPoints, logg))
				r.Post("/{pointId}/active", controllers.SetDeliveryPointActive(svcs.DeliveryPoints, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.ListUsers(svcs.Users, logg))
				r.Get("/{userId}", controllers.GetUser(svcs.Users, logg))
				r.Post("/{userId}/status", controllers.SetUserStatus(svcs.Users, logg))
			})

			r.Route("/group-orders", func(r chi.Router) {
				r.Get("/", controllers.ListGroupOrders(svcs.GroupOrders, logg))
				r.Post("/", controllers.CreateGroupOrder(svcs.GroupOrders, logg))
				r.Get("/{groupOrderId}", controllers.GetGroupOrder(svcs.GroupOrders, logg))
				r.Patch("/{groupOrderId}", controllers.EditGroupOrder(svcs.GroupOrders, logg))
				r.Delete("/{groupOrderId}", controllers.DeleteGroupOrder(svcs.GroupOrders, logg))
				r.Post("/{groupOrderId}/status", controllers.ChangeGroupOrderStatus(svcs.GroupOrders, logg))
				r.Post("/{groupOrderId}/proxy-orders", controllers.PlaceProxyOrder(svcs.Orders, logg))
				r.Get("/{groupOrderId}/payments", controllers.ListPayments(svcs.Payments, logg))
				r.Get("/{groupOrderId}/export", controllers.GroupOrderExport(svcs.Reporting, logg))
				r.Get("/{groupOrderId}/demand", controllers.ProducerDemand(svcs.Reporting, logg))
			})

			r.Post("/orders/{orderId}/payment-status", controllers.SetPaymentStatus(svcs.Payments, logg))
		})
	})

	return r
}
