package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tuannm-dev/weather-web/internal/weather"
)

var validate = validator.New()

// Deps bundles what the HTTP layer needs from the rest of the application.
type Deps struct {
	Service    *weather.Service
	Production bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. The JSON
// endpoints are the contract the (out-of-scope) page rendering layer
// consumes; error codes pass through verbatim for localized messaging.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
		}

		result := deps.Service.GetWeatherData(c.Context(), q.City)
		if !result.Success {
			return c.Status(statusForCode(result.ErrorCode)).JSON(result)
		}
		return c.JSON(result)
	})

	v1.Get("/weather/wind-direction", func(c *fiber.Ctx) error {
		degStr := c.Query("deg")
		deg, err := strconv.ParseFloat(degStr, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "deg query parameter must be a number")
		}
		return c.JSON(fiber.Map{
			"deg":       deg,
			"direction": weather.WindDirection(deg),
		})
	})

	// Cache maintenance is a development convenience, never exposed in
	// production.
	v1.Get("/weather/cache-stats", func(c *fiber.Ctx) error {
		if deps.Production {
			return fiber.NewError(fiber.StatusForbidden, "not available in production")
		}
		return c.JSON(deps.Service.CacheStats())
	})

	v1.Delete("/weather/cache", func(c *fiber.Ctx) error {
		if deps.Production {
			return fiber.NewError(fiber.StatusForbidden, "not available in production")
		}
		deps.Service.ClearCache()
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// weatherQuery holds the lookup query parameters.
type weatherQuery struct {
	City string `validate:"required"`
}

// statusForCode translates the stable error taxonomy into response statuses.
// The credential failure maps to 502 rather than 401: it is the server's
// misconfiguration, not the caller's.
func statusForCode(code weather.ErrorCode) int {
	switch code {
	case weather.ErrCodeNotFound:
		return fiber.StatusNotFound
	case weather.ErrCodeRateLimit:
		return fiber.StatusTooManyRequests
	case weather.ErrCodeInvalidAPIKey, weather.ErrCodeGeneric:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
