package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitalfit/vitalfit-backend/api/controllers"
	"github.com/vitalfit/vitalfit-backend/api/middleware"
	billingsvc "github.com/vitalfit/vitalfit-backend/internal/billing"
	catalogsvc "github.com/vitalfit/vitalfit-backend/internal/catalog"
	checkoutsvc "github.com/vitalfit/vitalfit-backend/internal/checkout"
	"github.com/vitalfit/vitalfit-backend/internal/members"
	receiptsvc "github.com/vitalfit/vitalfit-backend/internal/receipts"
	"github.com/vitalfit/vitalfit-backend/internal/wishlist"
	"github.com/vitalfit/vitalfit-backend/pkg/config"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// RouterParams bundles everything the HTTP surface is wired with. Nil
// optional handlers (metrics, readiness pingers) simply drop their routes.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Pingers  map[string]controllers.Pinger
	Checkout *checkoutsvc.Service
	Catalog  *catalogsvc.Service
	Wishlist wishlist.Service
	Members  members.Service
	Activity *members.Activity
	Receipts *receiptsvc.Service
	Billing  *billingsvc.Service
	Metrics  http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Pingers))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/memberships", controllers.CatalogMemberships(p.Catalog, logg))
			r.Get("/packages", controllers.CatalogPackages(p.Catalog, logg))
			r.Get("/branches", controllers.CatalogBranches(p.Catalog, logg))
			r.Get("/services", controllers.CatalogServices(p.Catalog, logg))
			r.Get("/payment-methods", controllers.CatalogPaymentMethods(p.Catalog, logg))
		})

		r.Route("/checkout/sessions", func(r chi.Router) {
			r.Post("/", controllers.CheckoutStart(p.Checkout, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.CheckoutSelection(p.Checkout, logg))
				r.Put("/membership", controllers.CheckoutSetMembership(p.Checkout, logg))
				r.Put("/branch", controllers.CheckoutSetBranch(p.Checkout, logg))
				r.Post("/packages", controllers.CheckoutTogglePackage(p.Checkout, logg))
				r.Post("/services", controllers.CheckoutToggleService(p.Checkout, logg))
				r.Put("/currency", controllers.CheckoutSetCurrency(p.Checkout, logg))
				r.Get("/quote", controllers.CheckoutQuote(p.Checkout, logg))
				r.Post("/confirm", controllers.CheckoutConfirmOrder(p.Checkout, logg))
				r.Post("/payment", controllers.CheckoutSubmitPayment(p.Checkout, logg))
				r.Post("/transfer", controllers.CheckoutConfirmTransfer(p.Checkout, logg))
				r.Get("/success", controllers.CheckoutSuccess(p.Checkout, logg))
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(p.Wishlist, logg))
			r.Get("/ids", controllers.WishlistIDs(p.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(p.Wishlist, logg))
			r.Delete("/{serviceId}", controllers.WishlistRemove(p.Wishlist, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/profile", controllers.MemberProfile(p.Members, logg))
			r.Put("/profile", controllers.MemberProfileSave(p.Members, logg))
			r.Get("/medical-record", controllers.MemberMedicalRecord(p.Members, logg))
			r.Put("/medical-record", controllers.MemberMedicalRecordSave(p.Members, logg))
			r.Get("/recent-services", controllers.MemberRecentServices(p.Activity, logg))
			r.Post("/recent-services", controllers.MemberRecordServiceView(p.Activity, logg))
			r.Get("/view-mode", controllers.MemberViewMode(p.Activity, logg))
			r.Put("/view-mode", controllers.MemberSaveViewMode(p.Activity, logg))
		})

		r.Post("/receipts", controllers.ReceiptUpload(p.Receipts, cfg.Receipts.MaxSizeBytes, logg))

		r.Route("/billing", func(r chi.Router) {
			r.Get("/invoices", controllers.BillingHistory(p.Billing, logg))
			r.Get("/invoices/{invoiceId}", controllers.BillingInvoiceDetail(p.Billing, logg))
		})
	})

	return r
}
