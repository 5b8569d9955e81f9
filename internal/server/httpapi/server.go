// Package httpapi exposes the JSON HTTP API of the homehistory server.
// Handlers decode and validate request bodies, delegate to the service
// layer, and translate sentinel errors into HTTP statuses in one place.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/config"
	"github.com/akarpov87/homehistory/internal/server/services"
)

// Server bundles the services behind the HTTP surface.
type Server struct {
	users     *services.UserService
	homes     *services.HomeService
	history   *services.HistoryService
	uploads   *services.UploadService
	property  *services.PropertyService
	jwtSecret []byte
	logger    logging.Logger
}

// NewServer constructs an HTTP server facade over the given services.
func NewServer(users *services.UserService, homes *services.HomeService,
	history *services.HistoryService, uploads *services.UploadService,
	property *services.PropertyService,
	cfg *config.Config, logger logging.Logger) *Server {
	return &Server{
		users:     users,
		homes:     homes,
		history:   history,
		uploads:   uploads,
		property:  property,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    logger,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", s.handleRegister)
		api.Post("/login", s.handleLogin)
		api.Post("/token/refresh", s.handleRefreshToken)
		api.Post("/property/lookup", s.handlePropertyLookup)

		api.Group(func(authed chi.Router) {
			authed.Use(s.authMiddleware)

			authed.Get("/users", s.handleListUsers)
			authed.Post("/home/claim", s.handleClaimHome)
			authed.Post("/uploads/presign", s.handlePresign)

			authed.Route("/home/{homeId}", func(home chi.Router) {
				home.Get("/", s.handleGetHome)
				home.Post("/migrate-local", s.handleMigrateLocal)
				home.Get("/migration-status", s.handleMigrationStatus)

				home.Get("/records", s.handleListRecords)
				home.Post("/records", s.handleCreateRecord)
				home.Patch("/records/{recordId}", s.handleUpdateRecord)
				home.Delete("/records/{recordId}", s.handleDeleteRecord)
				home.Post("/records/{recordId}/attachments", s.handlePersistAttachments)

				home.Get("/reminders", s.handleListReminders)
				home.Post("/reminders", s.handleCreateReminder)
				home.Post("/reminders/{reminderId}/attachments", s.handlePersistAttachments)

				home.Get("/warranties", s.handleListWarranties)
				home.Post("/warranties", s.handleCreateWarranty)
				home.Delete("/warranties/{warrantyId}", s.handleDeleteWarranty)
				home.Post("/warranties/{warrantyId}/attachments", s.handlePersistAttachments)
			})
		})
	})

	return r
}
