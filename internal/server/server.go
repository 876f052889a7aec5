package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gymconnect/internal/auth"
	"gymconnect/internal/availability"
	"gymconnect/internal/booking"
	"gymconnect/internal/config"
	"gymconnect/internal/logger"
	"gymconnect/internal/profile"
	"gymconnect/internal/review"
	"gymconnect/internal/scheduler"
	"gymconnect/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	http    *http.Server
	config  *config.Config
	sweeper *scheduler.Scheduler
}

type handlers struct {
	profile      *profile.Handler
	availability *availability.Handler
	booking      *booking.Handler
	review       *review.Handler
	subscription *subscription.Handler
}

func New(db *sqlx.DB, cfg *config.Config, log *zap.Logger) *Server {
	registerValidators()

	availabilityRepo := availability.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	availabilityService := availability.NewService(availabilityRepo)
	bookingService := booking.NewService(bookingRepo, availabilityRepo)
	reviewService := review.NewService(review.NewRepository(db), bookingRepo)
	subscriptionService := subscription.NewService(subscription.NewRepository(db))
	profileService := profile.NewService(profile.NewRepository(db), cfg.JWTSecret, cfg.JWTRefreshSecret)

	router := newRouter(cfg, handlers{
		profile:      profile.NewHandler(profileService),
		availability: availability.NewHandler(availabilityService),
		booking:      booking.NewHandler(bookingService),
		review:       review.NewHandler(reviewService),
		subscription: subscription.NewHandler(subscriptionService),
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		config:  cfg,
		sweeper: scheduler.NewScheduler(subscriptionService, bookingService, cfg.SweepInterval, log),
	}
}

func newRouter(cfg *config.Config, h handlers) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/register", h.profile.Register)
		public.POST("/login", h.profile.Login)
		public.POST("/refresh", h.profile.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.profile.GetMe)

		protected.GET("/trainers/:trainerID/availability", h.availability.ListWindows)
		protected.GET("/trainers/:trainerID/bookable", h.booking.Bookable)
		protected.GET("/trainers/:trainerID/rating", h.review.Rating)
		protected.GET("/profiles/:profileID/reviews", h.review.List)

		protected.POST("/bookings", auth.RequireCapability(auth.CapRequestBooking), h.booking.Create)
		protected.GET("/bookings", auth.RequireCapability(auth.CapViewBookings), h.booking.List)
		protected.GET("/bookings/:bookingID", auth.RequireCapability(auth.CapViewBookings), h.booking.Get)
		protected.POST("/bookings/:bookingID/transition", auth.RequireCapability(auth.CapTransitionBooking), h.booking.Transition)

		protected.POST("/reviews", auth.RequireCapability(auth.CapSubmitReview), h.review.Submit)

		protected.GET("/subscriptions", h.subscription.ListMy)
		protected.POST("/subscriptions/:subscriptionID/cancel", h.subscription.Cancel)

		protected.PUT("/availability/:day", auth.RequireCapability(auth.CapManageAvailability), h.availability.ReplaceDay)
		protected.GET("/trainer/analytics/bookings", auth.RequireCapability(auth.CapViewBookingAnalytics), h.booking.StatsByDay)
	}
	router.GET("/subscriptions/plans", h.subscription.ListPlans)

	gym := router.Group("/gym")
	gym.Use(authMiddleware, auth.RequireCapability(auth.CapManageSubscriptions))
	{
		gym.POST("/subscriptions", h.subscription.Create)
		gym.GET("/subscriptions", h.subscription.ListForGym)
	}

	return router
}

// Start launches the sweeper and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.sweeper.Start(ctx)

	logger.Infof("Server starting on port %s", s.config.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.sweeper.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
