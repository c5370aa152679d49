package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wltlabs/staffhub/internal/api/http/handlers"
	"github.com/wltlabs/staffhub/internal/auth"
	"github.com/wltlabs/staffhub/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Chat           *handlers.ChatHandler
	Notifications  *handlers.NotificationsHandler
	Attendance     *handlers.AttendanceHandler
	Leaves         *handlers.LeavesHandler
	Tasks          *handlers.TasksHandler
	Projects       *handlers.ProjectsHandler
	Payroll        *handlers.PayrollHandler
	KYC            *handlers.KYCHandler
	Documents      *handlers.DocumentsHandler
	WS             *handlers.WSHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/api/auth/login", cfg.Auth.Login)

	// Websocket auth happens in the upgrade gate via query token, not the
	// bearer middleware.
	app.Get("/ws", cfg.WS.Upgrade, cfg.WS.Serve())

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	users := api.Group("/users")
	users.Post("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Users.Create)
	users.Get("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin, domain.RoleManager), cfg.Users.List)
	users.Get("/me", cfg.Users.Me)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Users.Update)
	users.Delete("/:id", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Users.Deactivate)

	teams := api.Group("/teams")
	teams.Post("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Teams.Create)
	teams.Get("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Teams.List)
	teams.Get("/mine", cfg.Teams.ListMine)
	teams.Get("/:id", cfg.Teams.Get)
	teams.Post("/:id/members", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userId", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Teams.RemoveMember)

	chat := api.Group("/chat")
	chat.Get("/allowed-users", cfg.Chat.AllowedUsers)
	chat.Post("/conversations/direct", cfg.Chat.OpenDirect)
	chat.Post("/conversations/team", cfg.Chat.OpenTeam)
	chat.Get("/conversations", cfg.Chat.ListConversations)
	chat.Get("/conversations/:id/messages", cfg.Chat.ListMessages)
	chat.Post("/messages", cfg.Chat.SendMessage)
	chat.Post("/messages/:id/delivered", cfg.Chat.MarkDelivered)
	chat.Post("/seen", cfg.Chat.MarkSeen)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/broadcast", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Notifications.Broadcast)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	attendance := api.Group("/attendance")
	attendance.Post("/punch-in", cfg.Attendance.PunchIn)
	attendance.Post("/punch-out", cfg.Attendance.PunchOut)
	attendance.Get("/history", cfg.Attendance.History)
	attendance.Get("/team", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Attendance.TeamReport)

	leaves := api.Group("/leaves")
	leaves.Post("", cfg.Leaves.Apply)
	leaves.Get("", cfg.Leaves.ListMine)
	leaves.Get("/pending", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Leaves.ListPending)
	leaves.Post("/:id/decision", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Leaves.Decide)

	tasks := api.Group("/tasks")
	tasks.Post("", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Tasks.Create)
	tasks.Get("", cfg.Tasks.ListMine)
	tasks.Get("/team/:id", cfg.Tasks.ListForTeam)
	tasks.Patch("/:id/status", cfg.Tasks.UpdateStatus)

	projects := api.Group("/projects")
	projects.Post("", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Projects.Create)
	projects.Get("", cfg.Projects.List)
	projects.Get("/:id", cfg.Projects.Get)
	projects.Patch("/:id", auth.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin), cfg.Projects.Update)
	projects.Delete("/:id", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Projects.Delete)

	kyc := api.Group("/kyc")
	kyc.Get("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.KYC.List)
	kyc.Patch("/:employeeId/verify", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.KYC.Verify)
	kyc.Post("/:employeeId", cfg.KYC.Upsert)
	kyc.Get("/:employeeId", cfg.KYC.Get)

	documents := api.Group("/documents")
	documents.Get("/missing", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Documents.Missing)
	documents.Get("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Documents.List)
	documents.Patch("/:employeeId/verify", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Documents.Verify)
	documents.Post("/:employeeId", cfg.Documents.Upsert)
	documents.Get("/:employeeId", cfg.Documents.Get)

	payroll := api.Group("/payroll")
	payroll.Put("", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Payroll.Upsert)
	payroll.Get("", cfg.Payroll.ListMine)
	payroll.Get("/month/:month", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Payroll.ListForMonth)
	payroll.Post("/:id/paid", auth.RequireRole(domain.RoleHR, domain.RoleAdmin), cfg.Payroll.MarkPaid)
}
