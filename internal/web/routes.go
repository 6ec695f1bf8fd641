package web

import (
	"github.com/kozaktomas/face-checkin/internal/web/handlers"
)

// setupRoutes wires the check-in API. Paths match the original kiosk client,
// trailing slashes included, so existing deployments keep working.
func (s *Server) setupRoutes() {
	checkinHandler := handlers.NewCheckinHandler(s.config, s.service)

	s.router.Get("/health", handlers.HealthCheck)

	s.router.Post("/register/", checkinHandler.Register)
	s.router.Post("/recognize/", checkinHandler.Recognize)
	s.router.Post("/check-mask/", checkinHandler.CheckMask)
	s.router.Get("/history/", checkinHandler.History)
	s.router.Delete("/reset-database/", checkinHandler.Reset)
}
