// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"eduarchive_backend/internals/features/users/auth/controller"
	"eduarchive_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
)

// AuthPublicRoutes: /api/auth/login (dibatasi rate limiter login).
func AuthPublicRoutes(r fiber.Router, ac *controller.AuthController) {
	g := r.Group("/auth")
	g.Post("/login", middlewares.LoginRateLimiter(), ac.Login)
}

// AuthProtectedRoutes: /api/auth/me & /api/auth/logout, wajib token.
func AuthProtectedRoutes(r fiber.Router, ac *controller.AuthController, requireAuth fiber.Handler) {
	g := r.Group("/auth")
	g.Get("/me", requireAuth, ac.Me)
	g.Post("/logout", requireAuth, ac.Logout)
}
