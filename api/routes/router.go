package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitecms/sitecms-backend/api/controllers"
	"github.com/sitecms/sitecms-backend/api/middleware"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/metrics"
	pkgredis "github.com/sitecms/sitecms-backend/pkg/redis"
)

// Options carries the infrastructure the router mounts besides the resource
// services. Every field is optional.
type Options struct {
	MaxImageBytes int64
	Readiness     map[string]controllers.Pinger
	Idempotency   pkgredis.IdempotencyStore
	Metrics       *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, opts Options) http.Handler {
	if cfg == nil {
		cfg = &config.Config{}
	}
	maxImage := opts.MaxImageBytes
	if maxImage <= 0 {
		maxImage = cfg.Media.MaxUploadBytes()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(opts.Metrics),
		middleware.Idempotency(opts.Idempotency, cfg.FeatureFlags.IdempotencyTTL, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, opts.Readiness, logg))
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/heros", func(r chi.Router) {
		r.Get("/", controllers.HeroList(svc.Heroes, logg))
		r.Post("/", controllers.HeroCreate(svc.Heroes, maxImage, logg))
		r.Get("/{id}", controllers.HeroGet(svc.Heroes, logg))
		r.Put("/{id}", controllers.HeroUpdate(svc.Heroes, maxImage, logg))
		r.Patch("/{id}", controllers.HeroUpdate(svc.Heroes, maxImage, logg))
		r.Delete("/{id}", controllers.HeroDelete(svc.Heroes, logg))
	})

	r.Route("/team_members", func(r chi.Router) {
		r.Get("/", controllers.TeamMemberList(svc.Team, logg))
		r.Post("/", controllers.TeamMemberCreate(svc.Team, maxImage, logg))
		r.Get("/{id}", controllers.TeamMemberGet(svc.Team, logg))
		r.Put("/{id}", controllers.TeamMemberUpdate(svc.Team, maxImage, logg))
		r.Patch("/{id}", controllers.TeamMemberUpdate(svc.Team, maxImage, logg))
		r.Delete("/{id}", controllers.TeamMemberDelete(svc.Team, logg))
	})

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", controllers.LocationList(svc.Locations, logg))
		r.Post("/", controllers.LocationCreate(svc.Locations, maxImage, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.LocationGet(svc.Locations, logg))
			r.Put("/", controllers.LocationUpdate(svc.Locations, maxImage, logg))
			r.Patch("/", controllers.LocationUpdate(svc.Locations, maxImage, logg))
			r.Delete("/", controllers.LocationDelete(svc.Locations, logg))

			r.Get("/services", controllers.LocationServices(svc.Locations, logg))
			r.Patch("/services", controllers.LocationAddServices(svc.Locations, logg))
			r.Delete("/services/{service_id}", controllers.LocationRemoveService(svc.Locations, logg))
		})
	})

	r.Route("/services", func(r chi.Router) {
		r.Get("/", controllers.ServiceList(svc.Services, logg))
		r.Post("/", controllers.ServiceCreate(svc.Services, maxImage, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.ServiceGet(svc.Services, logg))
			r.Put("/", controllers.ServiceUpdate(svc.Services, maxImage, logg))
			r.Patch("/", controllers.ServiceUpdate(svc.Services, maxImage, logg))
			r.Delete("/", controllers.ServiceDelete(svc.Services, logg))
			r.Get("/locations", controllers.ServiceLocations(svc.Locations, logg))
		})
	})

	r.Route("/promotions", func(r chi.Router) {
		r.Get("/", controllers.PromotionList(svc.Promotions, logg))
		r.Post("/", controllers.PromotionCreate(svc.Promotions, maxImage, logg))
		r.Get("/{id}", controllers.PromotionGet(svc.Promotions, logg))
		r.Put("/{id}", controllers.PromotionUpdate(svc.Promotions, maxImage, logg))
		r.Patch("/{id}", controllers.PromotionUpdate(svc.Promotions, maxImage, logg))
		r.Delete("/{id}", controllers.PromotionDelete(svc.Promotions, logg))
	})

	r.Route("/offers", func(r chi.Router) {
		r.Get("/", controllers.OfferList(svc.Offers, logg))
		r.Post("/", controllers.OfferCreate(svc.Offers, maxImage, logg))
		r.Get("/{id}", controllers.OfferGet(svc.Offers, logg))
		r.Put("/{id}", controllers.OfferUpdate(svc.Offers, maxImage, logg))
		r.Patch("/{id}", controllers.OfferUpdate(svc.Offers, maxImage, logg))
		r.Delete("/{id}", controllers.OfferDelete(svc.Offers, logg))
	})

	r.Route("/other_info", func(r chi.Router) {
		r.Get("/", controllers.OtherInfoList(svc.OtherInfo, logg))
		r.Post("/", controllers.OtherInfoCreate(svc.OtherInfo, logg))
		r.Get("/{name}", controllers.OtherInfoGet(svc.OtherInfo, logg))
		r.Put("/{name}", controllers.OtherInfoUpdate(svc.OtherInfo, logg))
		r.Patch("/{name}", controllers.OtherInfoUpdate(svc.OtherInfo, logg))
		r.Delete("/{name}", controllers.OtherInfoDelete(svc.OtherInfo, logg))
	})

	r.Get("/images/{file_id}", controllers.ImageGet(svc.Images, logg))

	return r
}
