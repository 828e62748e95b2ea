package cmd

import (
	"context"
	"log"
	"log/slog"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"venue-booking/config"
	"venue-booking/handlers"
	_ "venue-booking/migrations"
	"venue-booking/monitoring"
	"venue-booking/services"
	"venue-booking/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub; without keys the notifier is a no-op
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(app)
	}

	// Initialize services
	notify := services.NewNotifyService(pn)
	locks := services.NewLockManager(redisClient, cfg.SlotLockTTL, cfg.TransitionLockTTL)
	availability := services.NewAvailabilityService(monitor)
	bookingService := services.NewBookingService(availability, notify, monitor)
	claimService := services.NewClaimService(notify, monitor)
	listingService := services.NewListingService(notify, monitor)
	userService := services.NewUserService(monitor)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(app, bookingService, availability, locks)
	claimHandler := handlers.NewClaimHandler(app, claimService, locks)
	listingHandler := handlers.NewListingHandler(app, listingService, locks)
	adminHandler := handlers.NewAdminHandler(app, userService, redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if monitor != nil {
			monitor.Stop()
		}
		return e.Next()
	})

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		syncApprovedVenuesToRedis(app, redisClient)

		// Availability and pricing are public reads
		e.Router.GET("/api/venues/{venueId}/availability", bookingHandler.CheckAvailability)
		e.Router.GET("/api/pricing/quote", bookingHandler.Quote)

		// Booking endpoints
		e.Router.POST("/api/bookings", bookingHandler.Create).Bind(apis.RequireAuth())
		e.Router.POST("/api/bookings/{bookingId}/status", bookingHandler.Transition).Bind(apis.RequireAuth())
		e.Router.GET("/api/bookings", bookingHandler.History).Bind(apis.RequireAuth())

		// Claim endpoints
		e.Router.POST("/api/claims", claimHandler.File).Bind(apis.RequireAuth())
		e.Router.POST("/api/claims/{claimId}/status", claimHandler.Transition).Bind(apis.RequireAuth())
		e.Router.GET("/api/claims", claimHandler.List).Bind(apis.RequireAuth())

		// Listing endpoints
		e.Router.POST("/api/venues", listingHandler.Submit).Bind(apis.RequireAuth())
		e.Router.POST("/api/venues/{venueId}/verification", listingHandler.Verify).Bind(apis.RequireAuth())
		e.Router.PATCH("/api/venues/{venueId}", listingHandler.Update).Bind(apis.RequireAuth())
		e.Router.DELETE("/api/venues/{venueId}", listingHandler.Remove).Bind(apis.RequireAuth())

		// Admin endpoints
		e.Router.GET("/api/admin/venues/pending", listingHandler.ListPending).Bind(apis.RequireAuth())
		e.Router.GET("/api/admin/dashboard", adminHandler.Dashboard).Bind(apis.RequireAuth())
		e.Router.PATCH("/api/admin/users/{userId}/role", adminHandler.UpdateUserRole).Bind(apis.RequireAuth())
		e.Router.DELETE("/api/admin/users/{userId}", adminHandler.DeleteUser).Bind(apis.RequireAuth())

		// Metrics
		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		setupVenueHooks(app, redisClient)

		return e.Next()
	})

	return app.Start()
}

// syncApprovedVenuesToRedis rebuilds the approved venue set on startup so the
// dashboard counter survives a Redis flush or a cold start.
func syncApprovedVenuesToRedis(app *pocketbase.PocketBase, redisClient *redis.Client) {
	ctx := context.Background()

	var records []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id FROM venues WHERE verification_status = 'approved' AND removed = 0",
	).All(&records); err != nil {
		log.Printf("Error fetching approved venues: %v", err)
		return
	}

	redisClient.Del(ctx, "approved_venues")

	if len(records) > 0 {
		var venueIDs []interface{}
		for _, record := range records {
			if id := record["id"].String; id != "" {
				venueIDs = append(venueIDs, id)
			}
		}

		if len(venueIDs) > 0 {
			redisClient.SAdd(ctx, "approved_venues", venueIDs...)
			log.Printf("Synced %d approved venues to Redis", len(venueIDs))
		}
	}
}

// setupVenueHooks keeps the Redis approved venue set in step with record
// changes, whichever surface they come through. Sync failures are logged and
// never fail the triggering request.
func setupVenueHooks(app *pocketbase.PocketBase, redisClient *redis.Client) {
	app.OnRecordAfterUpdateSuccess("venues").BindFunc(func(e *core.RecordEvent) error {
		ctx := context.Background()

		venueID := e.Record.Id
		approved := e.Record.GetString("verification_status") == "approved" &&
			!e.Record.GetBool("removed")

		if approved {
			if err := redisClient.SAdd(ctx, "approved_venues", venueID).Err(); err != nil {
				slog.Error("sync approved venue to redis", "venueID", venueID, "error", err)
			}
		} else {
			if err := redisClient.SRem(ctx, "approved_venues", venueID).Err(); err != nil {
				slog.Error("remove venue from redis set", "venueID", venueID, "error", err)
			}
		}
		return e.Next()
	})

	app.OnRecordAfterDeleteSuccess("venues").BindFunc(func(e *core.RecordEvent) error {
		if err := redisClient.SRem(context.Background(), "approved_venues", e.Record.Id).Err(); err != nil {
			slog.Error("remove deleted venue from redis set", "venueID", e.Record.Id, "error", err)
		}
		return e.Next()
	})
}
