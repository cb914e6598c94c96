package main

import (
	"context"
	"net/http"
	"time"

	"github.com/mindharbour/booking/libs/config"
	"github.com/mindharbour/booking/libs/db"
	"github.com/mindharbour/booking/libs/httpx"
	"github.com/mindharbour/booking/libs/kafkax"
	otelx "github.com/mindharbour/booking/libs/otel"
	"github.com/mindharbour/booking/libs/runtime"
	"github.com/mindharbour/booking/services/booking-service/internal/handlers"
	"github.com/mindharbour/booking/services/booking-service/internal/outbox"
	"github.com/mindharbour/booking/services/booking-service/internal/slots"
	"github.com/mindharbour/booking/services/booking-service/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	slotSet, err := slots.NewSet(slots.ParseList(config.String("SLOT_TIMES", "")))
	if err != nil {
		logger.Error("invalid SLOT_TIMES", "err", err)
		panic(err)
	}

	repo := storage.NewBookingRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: config.Duration("OUTBOX_POLL_EVERY", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	bookingHandler := handlers.NewBookingHandler(repo, outboxRepo, logger, slotSet)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("/api/v1/public/slots", bookingHandler.Slots)
	mux.HandleFunc("/api/v1/public/book", bookingHandler.Create)
	mux.HandleFunc("/api/v1/payments/confirm", bookingHandler.ConfirmPayment)
	mux.HandleFunc("/api/v1/payments/status", bookingHandler.Status)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/api/v1/admin/bookings", bookingHandler.List)
	adminMux.HandleFunc("/api/v1/admin/bookings/mark-paid", bookingHandler.MarkPaid)
	adminMux.HandleFunc("/api/v1/admin/bookings/mark-failed", bookingHandler.MarkFailed)
	mux.Handle("/api/v1/admin/", handlers.RequireAdmin(adminMux, config.String("ADMIN_TOKEN_HASH", "")))

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   httpx.SplitOrigins(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithBodyLimit(1 << 20),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 15*time.Second)),
	}
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		limiter := httpx.NewRedisRateLimiter(rdb,
			config.Int("RATE_LIMIT", 60),
			config.Duration("RATE_LIMIT_WINDOW", time.Minute),
			service,
		)
		middlewares = append(middlewares, limiter.Middleware(logger, true))
	} else {
		limiter := httpx.NewRateLimiter(
			config.Int("RATE_LIMIT", 60),
			config.Duration("RATE_LIMIT_WINDOW", time.Minute),
		)
		middlewares = append(middlewares, limiter.Middleware())
	}
	middlewares = append(middlewares, httpx.WithAccessLog(logger))

	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
