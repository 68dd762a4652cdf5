package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-outlook/internal/metrics"
	"github.com/i474232898/weather-outlook/internal/places"
	"github.com/i474232898/weather-outlook/internal/weather"
)

var validate = validator.New()

// WeatherFetcher is satisfied by *weather.Service.
type WeatherFetcher interface {
	Fetch(ctx context.Context, locationName string) (weather.Snapshot, error)
}

// Suggester is satisfied by *places.Typeahead.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]places.Candidate, error)
}

// Handlers holds the dependencies of the API routes.
type Handlers struct {
	Weather   WeatherFetcher
	Suggester Suggester
	Metrics   metrics.Recorder
	Log       zerolog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h Handlers) {
	if h.Metrics == nil {
		h.Metrics = metrics.Noop()
	}

	v1 := app.Group("/api/v1", countRequests(h.Metrics))

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q := weatherQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		snapshot, err := h.Weather.Fetch(c.UserContext(), q.City)
		if err != nil {
			h.Log.Info().Err(err).Str("city", q.City).Msg("weather lookup failed")
			return fiber.NewError(statusFor(err), weather.UserMessage(err))
		}

		return c.JSON(snapshot)
	})

	v1.Get("/places", func(c *fiber.Ctx) error {
		q := placesQuery{Query: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		suggestions, err := h.Suggester.Suggest(c.UserContext(), q.Query)
		if err != nil {
			if !errors.Is(err, places.ErrSuperseded) {
				h.Log.Debug().Err(err).Str("q", q.Query).Msg("suggestion abandoned")
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		if suggestions == nil {
			suggestions = []places.Candidate{}
		}
		return c.JSON(fiber.Map{"suggestions": suggestions})
	})
}

type weatherQuery struct {
	City string `validate:"required,max=200"`
}

type placesQuery struct {
	Query string `validate:"max=200"`
}

// statusFor maps a weather error onto the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, weather.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, weather.ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusBadGateway
	}
}

// ErrorHandler renders errors as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// countRequests records one API request per response, by route and status.
func countRequests(rec metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		rec.IncRequestsTotal(c.Route().Path, status)
		return err
	}
}
