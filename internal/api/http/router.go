package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/api/http/handlers"
	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Addresses      *handlers.AddressesHandler
	Categories     *handlers.CategoriesHandler
	Businesses     *handlers.BusinessesHandler
	Services       *handlers.ServicesHandler
	Bookings       *handlers.BookingsHandler
	Feedback       *handlers.FeedbackHandler
	Uploads        *handlers.UploadsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Each protected group declares its role
// allow-list once, next to the routes it guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/verify", cfg.Auth.VerifyOTP)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	// Public browsing.
	app.Get("/categories", cfg.Categories.List)
	app.Get("/categories/:id", cfg.Categories.Get)
	app.Get("/businesses", cfg.Businesses.List)
	app.Get("/businesses/:id", cfg.Businesses.Get)
	app.Get("/businesses/:id/services", cfg.Businesses.Services)
	app.Get("/businesses/:id/slots", cfg.Businesses.ListBusinessSlots)
	app.Get("/businesses/:id/reviews", cfg.Businesses.Reviews)
	app.Get("/services", cfg.Services.List)
	app.Get("/services/:id", cfg.Services.Get)
	app.Get("/services/:id/reviews", cfg.Services.Reviews)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	me := authed.Group("/users", auth.RequireAuthenticated())
	me.Get("/me", cfg.Users.Me)
	me.Patch("/me", cfg.Users.UpdateMe)

	addresses := authed.Group("/addresses", auth.RequireRole(domain.RoleCustomer, domain.RoleProvider, domain.RoleAdmin))
	addresses.Post("", cfg.Addresses.Create)
	addresses.Get("", cfg.Addresses.List)
	addresses.Get("/:id", cfg.Addresses.Get)
	addresses.Put("/:id", cfg.Addresses.Update)
	addresses.Delete("/:id", cfg.Addresses.Delete)

	provider := authed.Group("", auth.RequireRole(domain.RoleProvider))
	provider.Post("/businesses", cfg.Businesses.Create)
	provider.Get("/businesses/me/profile", cfg.Businesses.GetMine)
	provider.Put("/businesses/me/profile", cfg.Businesses.UpdateMine)
	provider.Delete("/businesses/:id", cfg.Businesses.Delete)
	provider.Post("/services", cfg.Services.Create)
	provider.Put("/services/:id", cfg.Services.Update)
	provider.Delete("/services/:id", cfg.Services.Delete)
	provider.Post("/slots", cfg.Businesses.AddSlot)
	provider.Post("/slots/generate", cfg.Businesses.GenerateSlots)
	provider.Get("/slots", cfg.Businesses.ListMySlots)
	provider.Delete("/slots/:id", cfg.Businesses.DeleteSlot)
	provider.Get("/bookings/business", cfg.Bookings.ListForBusiness)
	provider.Patch("/bookings/:id/accept", cfg.Bookings.Accept)
	provider.Patch("/bookings/:id/reject", cfg.Bookings.Reject)
	provider.Patch("/bookings/:id/complete", cfg.Bookings.Complete)

	customer := authed.Group("", auth.RequireRole(domain.RoleCustomer))
	customer.Post("/bookings", cfg.Bookings.Create)
	customer.Get("/bookings", cfg.Bookings.ListMine)
	customer.Patch("/bookings/:id/cancel", cfg.Bookings.Cancel)
	customer.Post("/feedback", cfg.Feedback.Submit)

	authed.Get("/bookings/:id", auth.RequireAuthenticated(), cfg.Bookings.Get)

	uploads := authed.Group("/uploads", auth.RequireAuthenticated())
	uploads.Post("/:folder", cfg.Uploads.Upload)
	uploads.Delete("", cfg.Uploads.Delete)

	admin := authed.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Users.List)
	admin.Get("/users/:id", cfg.Users.Get)
	admin.Delete("/users/:id", cfg.Users.Delete)
	admin.Post("/categories", cfg.Categories.Create)
	admin.Put("/categories/:id", cfg.Categories.Update)
	admin.Delete("/categories/:id", cfg.Categories.Delete)
	admin.Patch("/businesses/:id/verify", cfg.Businesses.Verify)
}
