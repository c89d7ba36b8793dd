package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pantrio/zaru-visits/libs/config"
	"github.com/pantrio/zaru-visits/libs/db"
	"github.com/pantrio/zaru-visits/libs/httpx"
	"github.com/pantrio/zaru-visits/libs/kafkax"
	otelx "github.com/pantrio/zaru-visits/libs/otel"
	"github.com/pantrio/zaru-visits/libs/runtime"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/agent"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/availability"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/booking"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/calendar"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/catalog"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/clock"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/events"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/handlers"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/sheets"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/store"
)

func loadLocation(logger *slog.Logger) *time.Location {
	name := config.String("TIMEZONE", config.String("GOOGLE_CALENDAR_TIMEZONE", "America/Mexico_City"))
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", "timezone", name)
		return time.UTC
	}
	return loc
}

func openStore(ctx context.Context, logger *slog.Logger) (store.Store, *db.Pool, error) {
	dbURL := config.String("DATABASE_URL", "")
	if dbURL == "" {
		path := config.String("APPOINTMENTS_FILE", "/tmp/appointments.json")
		return store.NewFileStore(path, logger), nil, nil
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgresStore(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool, nil
}

func buildAdapters(ctx context.Context, loc *time.Location, logger *slog.Logger) (calendar.Adapter, sheets.Adapter) {
	creds := config.String("GOOGLE_CREDENTIALS_JSON", "")
	if creds == "" {
		logger.Info("google credentials not configured, calendar and spreadsheet mirrors disabled")
		return calendar.Disabled(), sheets.Disabled()
	}

	cal := calendar.Adapter(calendar.Disabled())
	if id := config.String("GOOGLE_CALENDAR_ID", ""); id != "" {
		g, err := calendar.NewGoogle(ctx, []byte(creds), id, loc, logger)
		if err != nil {
			logger.Error("calendar adapter init failed", "err", err)
		} else {
			cal = g
		}
	}

	sh := sheets.Adapter(sheets.Disabled())
	if id := config.String("GOOGLE_SHEET_ID", ""); id != "" {
		g, err := sheets.NewGoogle(ctx, []byte(creds), id, loc, logger)
		if err != nil {
			logger.Error("spreadsheet adapter init failed", "err", err)
		} else {
			sh = g
		}
	}
	return cal, sh
}

func buildAgent(ctx context.Context, cat *catalog.Catalog, logger *slog.Logger) (*agent.Agent, *agent.HistoryStore) {
	apiKey := config.String("GEMINI_API_KEY", "")
	if apiKey == "" {
		logger.Info("GEMINI_API_KEY not set, chat assistant disabled")
		return nil, nil
	}

	history, err := agent.OpenHistory(config.String("CONVERSATIONS_DB", "/tmp/conversations.db"))
	if err != nil {
		logger.Error("conversation history init failed, chat assistant disabled", "err", err)
		return nil, nil
	}

	a, err := agent.New(ctx, agent.Config{
		APIKey: apiKey,
		Model:  config.String("GEMINI_MODEL", ""),
	}, history, cat, logger)
	if err != nil {
		logger.Error("chat assistant init failed", "err", err)
		_ = history.Close()
		return nil, nil
	}
	return a, history
}

func rateLimitMiddleware(logger *slog.Logger) httpx.Middleware {
	limit := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
		})
		return httpx.NewRedisRateLimiter(rdb, limit, time.Minute, "visits").
			Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
	}
	return httpx.NewRateLimiter(limit, time.Minute).Middleware()
}

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "visits-service")
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

	loc := loadLocation(logger)

	st, pool, err := openStore(ctx, logger)
	if err != nil {
		logger.Error("store init failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	cal, sh := buildAdapters(ctx, loc, logger)
	clk := clock.NewSystem()

	resolver := availability.NewResolver(availability.Config{
		OpenHour:       config.Int("OPEN_HOUR", 9),
		CloseHour:      config.Int("CLOSE_HOUR", 18),
		SlotCapacity:   config.Int("SLOT_CAPACITY", 1),
		Location:       loc,
		AdapterTimeout: config.Seconds("ADAPTER_TIMEOUT_SECONDS", 5*time.Second),
	}, st, cal, sh, clk, logger)

	publisher := events.NewPublisher(config.String("KAFKA_BROKERS", ""), logger)
	var notifier booking.Notifier
	if publisher != nil {
		notifier = publisher
		defer func() { _ = publisher.Close() }()
	}

	transactor := booking.NewTransactor(booking.Config{
		DefaultLocation: config.String("DEFAULT_LOCATION", "Torre de Piedra Zarú"),
		MirrorTimeout:   config.Seconds("MIRROR_TIMEOUT_SECONDS", 5*time.Second),
	}, st, resolver, cal, sh, notifier, clk, logger)

	cat, err := catalog.Load(config.String("CATALOG_FILE", "data/prototypes.json"))
	if err != nil {
		logger.Warn("catalog load failed, serving empty catalog", "err", err)
	}

	assistant, history := buildAgent(ctx, cat, logger)
	if assistant != nil {
		defer func() { _ = assistant.Close() }()
		defer func() { _ = history.Close() }()
	}

	readyChecks := []runtime.ReadyCheck{}
	if pool != nil {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
	}
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}

	availabilityHandler := handlers.NewAvailabilityHandler(resolver, logger)
	appointmentsHandler := handlers.NewAppointmentsHandler(transactor, logger)
	chatHandler := handlers.NewChatHandler(assistant, logger)
	catalogHandler := handlers.NewCatalogHandler(cat, logger)

	mux := runtime.NewBaseMux(readyChecks...)
	mux.HandleFunc("/availability", availabilityHandler.Slots)
	mux.HandleFunc("/availability-range", availabilityHandler.Range)
	mux.HandleFunc("/appointments", appointmentsHandler.Create)
	mux.HandleFunc("/chat", chatHandler.Chat)
	mux.HandleFunc("/prototypes", catalogHandler.List)

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		rateLimitMiddleware(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 30*time.Second)),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "visits")

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
