package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"travelbook/internal/auth"
	"travelbook/internal/config"
	"travelbook/internal/service"

	"github.com/rs/zerolog"
)

// Server is the public HTTP surface of the booking backend.
type Server struct {
	cfg      config.ServerConfig
	users    *service.UserService
	tours    *service.TourService
	bookings *service.BookingService
	vehicles *service.VehicleService
	tokens   *auth.Tokens
	limiter  *rateLimiter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.ServerConfig,
	users *service.UserService,
	tours *service.TourService,
	bookings *service.BookingService,
	vehicles *service.VehicleService,
	tokens *auth.Tokens,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		tours:    tours,
		bookings: bookings,
		vehicles: vehicles,
		tokens:   tokens,
		limiter:  newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		logger:   logger,
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// Handler builds the full route table. Exposed separately so tests can drive
// the mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Auth and account management. The credential endpoints are the only
	// rate-limited routes.
	mux.HandleFunc("POST /api/auth/register", s.rateLimited(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.rateLimited(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.requireUser(s.handleProfile))
	mux.HandleFunc("PUT /api/auth/me", s.requireUser(s.handleUpdateProfile))
	mux.HandleFunc("POST /api/auth/change-password", s.requireUser(s.handleChangePassword))
	mux.HandleFunc("POST /api/auth/forgot-password", s.rateLimited(s.handleForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", s.rateLimited(s.handleResetPassword))
	mux.HandleFunc("GET /api/auth/admin/users", s.requireAdmin(s.handleListUsers))
	mux.HandleFunc("DELETE /api/auth/admin/users/{id}", s.requireAdmin(s.handleDeleteUser))
	mux.HandleFunc("PATCH /api/auth/admin/users/{id}/toggle-admin", s.requireAdmin(s.handleToggleAdmin))

	// Destination catalog.
	mux.HandleFunc("GET /api/destinations", s.handleListDestinations)
	mux.HandleFunc("GET /api/destinations/search", s.handleSearchDestinations)
	mux.HandleFunc("GET /api/destinations/{id}", s.handleGetDestination)
	mux.HandleFunc("POST /api/destinations", s.requireAdmin(s.handleCreateDestination))
	mux.HandleFunc("PUT /api/destinations/{id}", s.requireAdmin(s.handleUpdateDestination))
	mux.HandleFunc("DELETE /api/destinations/{id}", s.requireAdmin(s.handleDeleteDestination))

	// Tour catalog and reviews.
	mux.HandleFunc("GET /api/tours", s.handleListTours)
	mux.HandleFunc("GET /api/tours/{id}", s.handleGetTour)
	mux.HandleFunc("POST /api/tours", s.requireAdmin(s.handleCreateTour))
	mux.HandleFunc("PUT /api/tours/{id}", s.requireAdmin(s.handleUpdateTour))
	mux.HandleFunc("DELETE /api/tours/{id}", s.requireAdmin(s.handleDeleteTour))
	mux.HandleFunc("POST /api/tours/{id}/dates", s.requireAdmin(s.handleCreateTourDate))
	mux.HandleFunc("POST /api/tours/{id}/reviews", s.requireUser(s.handleAddReview))
	mux.HandleFunc("PUT /api/reviews/{id}", s.requireUser(s.handleUpdateReview))
	mux.HandleFunc("DELETE /api/reviews/{id}", s.requireUser(s.handleDeleteReview))

	// Tour bookings.
	mux.HandleFunc("GET /api/bookings", s.requireUser(s.handleListBookings))
	mux.HandleFunc("POST /api/bookings", s.requireUser(s.handleCreateBooking))
	mux.HandleFunc("GET /api/bookings/{id}", s.requireUser(s.handleGetBooking))
	mux.HandleFunc("PUT /api/bookings/{id}", s.requireUser(s.handleUpdateBooking))
	mux.HandleFunc("POST /api/bookings/{id}/cancel", s.requireUser(s.handleCancelBooking))
	mux.HandleFunc("GET /api/bookings/admin/bookings", s.requireAdmin(s.handleAdminListBookings))
	mux.HandleFunc("GET /api/bookings/admin/export", s.requireAdmin(s.handleExportBookings))

	// Vehicle fleet and bookings.
	mux.HandleFunc("GET /api/vehicles", s.handleListVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleGetVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}/calendar", s.handleVehicleCalendar)
	mux.HandleFunc("POST /api/vehicles", s.requireAdmin(s.handleCreateVehicle))
	mux.HandleFunc("PUT /api/vehicles/{id}", s.requireAdmin(s.handleUpdateVehicle))
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.requireAdmin(s.handleDeleteVehicle))
	mux.HandleFunc("POST /api/vehicle-bookings", s.requireUser(s.handleRequestVehicleBooking))
	mux.HandleFunc("GET /api/vehicle-bookings", s.requireUser(s.handleListVehicleBookings))
	mux.HandleFunc("PATCH /api/vehicle-bookings/{id}", s.requireUser(s.handleUpdateVehicleBooking))

	return s.requestMiddleware(mux)
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
