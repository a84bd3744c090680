package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devanshhooda/learn-live-server/internal/handlers"
	"github.com/devanshhooda/learn-live-server/internal/middleware"
	"github.com/devanshhooda/learn-live-server/internal/token"
)

func Setup(app *fiber.App, h *handlers.Handler, tokens *token.Manager, limiter *middleware.RateLimiter) {
	requireAuth := middleware.RequireAuth(tokens)
	limited := limiter.ByIP()

	app.All("/", h.Welcome)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	user := app.Group("/api/user")
	user.All("/", h.WelcomeUser)

	user.Post("/create", limited, h.Create)
	user.Post("/login", limited, h.Login)

	user.Put("/update", requireAuth, h.Update)
	user.Get("/showAll", requireAuth, h.ShowAll)
	user.Put("/showOnly", requireAuth, h.ShowOnly)
	user.Get("/getUser", requireAuth, h.GetUser)
	user.Put("/sendConnectionRequest", requireAuth, h.SendConnectionRequest)
	user.Put("/respondConnectionRequest", requireAuth, h.RespondConnectionRequest)
	user.Put("/sendCallRequest", requireAuth, h.SendCallRequest)
}
