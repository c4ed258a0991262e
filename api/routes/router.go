package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adrianvasquez/fundhub-backend/api/controllers"
	"github.com/adrianvasquez/fundhub-backend/api/middleware"
	"github.com/adrianvasquez/fundhub-backend/internal/applications"
	"github.com/adrianvasquez/fundhub-backend/internal/auth"
	"github.com/adrianvasquez/fundhub-backend/internal/campaigns"
	"github.com/adrianvasquez/fundhub-backend/internal/comments"
	"github.com/adrianvasquez/fundhub-backend/internal/pledges"
	"github.com/adrianvasquez/fundhub-backend/internal/stats"
	"github.com/adrianvasquez/fundhub-backend/internal/users"
	"github.com/adrianvasquez/fundhub-backend/pkg/auth/session"
	"github.com/adrianvasquez/fundhub-backend/pkg/config"
	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"github.com/adrianvasquez/fundhub-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	userService users.Service,
	applicationService applications.Service,
	campaignService campaigns.Service,
	pledgeService pledges.Service,
	commentService comments.Service,
	statsService stats.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Get("/auth/callback", controllers.AuthCallbackRedirect())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/v1", func(r chi.Router) {
			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", controllers.ListActiveCampaigns(campaignService, logg))
				r.Get("/slug/{slug}", controllers.GetCampaignBySlug(campaignService, logg))
				r.Get("/{campaignId}", controllers.GetCampaignByID(campaignService, logg))
				r.Get("/{campaignId}/pledges", controllers.CampaignPledges(pledgeService, logg))
				r.Get("/{campaignId}/stats", controllers.CampaignStats(pledgeService, logg))
				r.Get("/{campaignId}/comments", controllers.CampaignComments(commentService, logg))
			})
			r.Get("/stats/platform", controllers.PlatformStats(statsService, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/users/me", func(r chi.Router) {
			r.Get("/", controllers.CurrentUser(userService, logg))
			r.Put("/", controllers.UpdateProfile(userService, logg))
		})

		r.Route("/v1/applications", func(r chi.Router) {
			r.Post("/", controllers.SubmitApplication(applicationService, logg))
			r.Get("/me", controllers.MyApplication(applicationService, logg))
		})

		r.Route("/v1/campaigns", func(r chi.Router) {
			r.Post("/", controllers.CreateCampaign(campaignService, logg))
			r.Get("/mine", controllers.MyCampaigns(campaignService, logg))
			r.Patch("/{campaignId}", controllers.UpdateCampaign(campaignService, logg))
			r.Post("/{campaignId}/submit", controllers.SubmitCampaignForReview(campaignService, logg))
			r.Delete("/{campaignId}", controllers.DeleteCampaign(campaignService, logg))
			r.Post("/{campaignId}/comments", controllers.CreateComment(commentService, logg))
		})

		r.Route("/v1/pledges", func(r chi.Router) {
			r.Post("/", controllers.CreatePledge(pledgeService, logg))
			r.Get("/mine", controllers.MyPledges(pledgeService, logg))
			r.Delete("/{pledgeId}", controllers.CancelPledge(pledgeService, logg))
		})

		r.Delete("/v1/comments/{commentId}", controllers.DeleteComment(commentService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/campaigns", func(r chi.Router) {
			r.Get("/pending", controllers.AdminPendingCampaigns(campaignService, logg))
			r.Post("/{campaignId}/review", controllers.AdminReviewCampaign(campaignService, logg))
		})

		r.Route("/v1/applications", func(r chi.Router) {
			r.Get("/", controllers.AdminAllApplications(applicationService, logg))
			r.Get("/pending", controllers.AdminPendingApplications(applicationService, logg))
			r.Post("/{applicationId}/review", controllers.AdminReviewApplication(applicationService, logg))
		})

		r.Patch("/v1/users/{userId}/role", controllers.AdminUpdateUserRole(userService, logg))
		r.Patch("/v1/pledges/{pledgeId}/payment-status", controllers.AdminUpdatePledgePaymentStatus(pledgeService, logg))
	})

	return r
}
