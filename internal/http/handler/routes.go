package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// Screen binds one resource to the API client that serves it.
type Screen struct {
	Resource model.Resource
	Client   client.Client
}

const navLocalKey = "nav"

func navFromCtx(c *fiber.Ctx) []model.Resource {
	nav, _ := c.Locals(navLocalKey).([]model.Resource)
	return nav
}

// RegisterRoutes attaches the operational endpoints and the screens of every resource.
// The first screen also answers "/".
func RegisterRoutes(app *fiber.App, screens []Screen, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	nav := make([]model.Resource, 0, len(screens))
	for _, s := range screens {
		nav = append(nav, s.Resource)
	}
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(navLocalKey, nav)
		return c.Next()
	})

	app.Get("/health", HealthCheck(screens))
	app.Get("/healthz", LivenessProbe())

	if len(screens) > 0 {
		app.Get("/", ListScreen(screens[0], log))
	}

	for _, s := range screens {
		g := app.Group("/" + s.Resource.RoutePrefix)

		g.Get("/list", ListScreen(s, log))
		g.Get("/create", CreateForm(s, log))
		g.Post("/create", CreateSubmit(s, log))
		g.Get("/view/:id", ViewScreen(s, log))
		g.Get("/edit/:id", EditForm(s, log))
		g.Post("/edit/:id", EditSubmit(s, log))
		g.Get("/delete/:id", DeleteConfirm(s, log))
		g.Post("/delete/:id", DeleteSubmit(s, log))
	}
}

// HealthCheck pings every upstream collection.
func HealthCheck(screens []Screen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		for _, s := range screens {
			if err := s.Client.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
