package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
	"github.com/BruksfildServices01/beauty-booking/internal/handlers"
	"github.com/BruksfildServices01/beauty-booking/internal/middleware"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/booking"
	ucReservation "github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
)

// Deps carries the singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Sessions booking.SessionStore

	// Reservations is shared by every reservation use case.
	Reservations ucReservation.Deps
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	validators.Register()

	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES: RESERVATIONS
	// ======================================================
	repo := d.Reservations.Repo

	createUC := ucReservation.NewCreateReservation(d.Reservations)
	attachUC := ucReservation.NewAttachPayment(d.Reservations)
	cancelUC := ucReservation.NewCancelReservation(d.Reservations)
	completeUC := ucReservation.NewCompleteReservation(d.Reservations)
	releaseUC := ucReservation.NewReleaseHold(d.Reservations)

	availabilityUC := ucReservation.NewGetAvailability(d.Reservations)
	busyUC := ucReservation.NewListBusyIntervals(d.Reservations)
	quoteUC := ucReservation.NewGetQuote(repo)

	listByDateUC := ucReservation.NewListReservationsByDate(repo)
	listByMonthUC := ucReservation.NewListReservationsByMonth(repo)

	// ======================================================
	// USE CASES: BOOKING SESSIONS
	// ======================================================
	flow := booking.NewFlow(booking.Deps{
		Store:        d.Sessions,
		Availability: availabilityUC,
		Quote:        quoteUC,
		Create:       createUC,
		Attach:       attachUC,
		Release:      releaseUC,
		Log:          d.Log,
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	dispatcher := d.Reservations.Audit

	meHandler := handlers.NewMeHandler(d.DB)
	profileHandler := handlers.NewProviderProfileHandler(d.DB, dispatcher, d.Config.DefaultTimezone)
	offeringHandler := handlers.NewServiceOfferingHandler(d.DB, dispatcher)
	customerHandler := handlers.NewCustomerHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	reservationHandler := handlers.NewReservationHandler(
		createUC,
		attachUC,
		cancelUC,
		completeUC,
		listByDateUC,
		listByMonthUC,
	)

	publicHandler := handlers.NewPublicHandler(d.DB, availabilityUC, busyUC, quoteUC)
	sessionHandler := handlers.NewBookingSessionHandler(flow)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/providers")
		public.Use(middleware.RateLimit(d.Config.RateLimitPerMinute, d.Log))
		{
			public.GET("/:id/offerings", publicHandler.ListOfferings)
			public.GET("/:id/availability", publicHandler.Availability)
			public.GET("/:id/reservations", publicHandler.BusyIntervals)
			public.GET("/:id/quote", publicHandler.Quote)
		}

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CUSTOMER
			// ------------------------------
			customer := secured.Group("/")
			customer.Use(middleware.RequireRole(middleware.RoleCustomer))
			{
				customer.POST("/reservations", reservationHandler.Create)
				customer.PATCH("/reservations/:id/payment", reservationHandler.AttachPayment)
				customer.POST("/reservations/:id/cancel", reservationHandler.Cancel)

				customer.POST("/booking-sessions", sessionHandler.Start)
				customer.GET("/booking-sessions/:id", sessionHandler.Get)
				customer.POST("/booking-sessions/:id/date", sessionHandler.SelectDate)
				customer.POST("/booking-sessions/:id/time", sessionHandler.SelectTime)
				customer.POST("/booking-sessions/:id/details", sessionHandler.SubmitDetails)
				customer.POST("/booking-sessions/:id/back", sessionHandler.Back)
				customer.POST("/booking-sessions/:id/payment/success", sessionHandler.PaymentSuccess)
				customer.POST("/booking-sessions/:id/payment/failure", sessionHandler.PaymentFailure)
			}

			// ------------------------------
			// PROVIDER
			// ------------------------------
			provider := secured.Group("/me")
			provider.Use(middleware.RequireRole(middleware.RoleProvider))
			{
				provider.GET("/profile", profileHandler.Get)
				provider.PATCH("/profile", profileHandler.Update)
				provider.PUT("/travel-tiers", profileHandler.ReplaceTravelTiers)
				provider.PUT("/blackouts", profileHandler.ReplaceBlackouts)

				provider.GET("/offerings", offeringHandler.List)
				provider.POST("/offerings", offeringHandler.Create)
				provider.PATCH("/offerings/:id", offeringHandler.Update)

				provider.GET("/customers", customerHandler.List)

				provider.GET("/reservations", reservationHandler.ListByDate)
				provider.GET("/reservations/month", reservationHandler.ListByMonth)
				provider.PATCH("/reservations/:id/complete", reservationHandler.Complete)
				provider.POST("/reservations/:id/cancel", reservationHandler.Cancel)

				provider.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
