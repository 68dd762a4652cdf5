package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-outlook/internal/api/http"
	"github.com/i474232898/weather-outlook/internal/scheduler"
)

const appName = "weather-outlook"

func newServeCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), app())
		},
	}
}

// NewServer builds the fiber app with every route registered.
func NewServer(a *App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	if a.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	}

	httpapi.RegisterRoutes(app, httpapi.Handlers{
		Weather:   a.Weather,
		Suggester: a.Suggester,
		Metrics:   a.Metrics,
		Log:       a.Log,
	})

	return app
}

func serve(parent context.Context, a *App) error {
	if parent == nil {
		parent = context.Background()
	}

	// Scheduler that keeps configured locations warm in the cache.
	sched := scheduler.New(a.Config.WarmLocations, a.Config.WarmInterval, a.Warmer, a.Log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := NewServer(a)

	errc := make(chan error, 1)
	go func() {
		a.Log.Info().Str("port", a.Config.Port).Msg("http server listening")
		errc <- app.Listen(":" + a.Config.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		a.Log.Error().Err(err).Msg("error during shutdown")
		return err
	}
	a.Log.Info().Msg("http server stopped")
	return nil
}
