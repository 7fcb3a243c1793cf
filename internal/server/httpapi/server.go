// Package httpapi exposes the data loader over HTTP. Every handler calls
// one loader operation and maps its error kind onto a status code.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/models"
)

const shutdownTimeout = 10 * time.Second

// Loader is the subset of services.DataLoader used by the handlers.
type Loader interface {
	Register(ctx context.Context, u models.NewUser) (*models.User, error)
	CreateSession(ctx context.Context, email, password string) (string, error)
	ResolveSession(ctx context.Context, token string) (*models.User, bool, error)
	DestroySession(ctx context.Context, token string) error

	BoardOwnedBy(ctx context.Context, boardID, userID int64) (bool, error)
	BookmarkOwnedBy(ctx context.Context, bookmarkID, userID int64) (bool, error)
	PlantOwnedBy(ctx context.Context, plantID, userID int64) (bool, error)

	GetBoard(ctx context.Context, id int64) (*models.Board, error)
	ListBoards(ctx context.Context, ownerID int64, page models.Page) ([]models.Board, error)
	CreateBoard(ctx context.Context, b models.NewBoard) (*models.Board, error)
	UpdateBoard(ctx context.Context, id int64, u models.BoardUpdate) (*models.Board, error)
	DeleteBoard(ctx context.Context, id int64) error

	ListBookmarks(ctx context.Context, boardID int64, page models.Page) ([]models.Bookmark, error)
	CreateBookmark(ctx context.Context, b models.NewBookmark) (*models.Bookmark, error)
	UpdateBookmark(ctx context.Context, id int64, u models.BookmarkUpdate) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, id int64) error

	ListPlants(ctx context.Context, userID int64) ([]models.Plant, error)
	CreatePlant(ctx context.Context, p models.NewPlant) (*models.Plant, error)
	UpdatePlant(ctx context.Context, id int64, u models.PlantUpdate) (*models.Plant, error)
	DeletePlant(ctx context.Context, id int64) error
	GetPlantWithReadings(ctx context.Context, id int64) (*models.PlantWithReadings, error)
	RecordReading(ctx context.Context, r models.NewReading) (int64, error)

	PhotoUploadURL(ctx context.Context, plantID int64) (string, string, error)
	PhotoDownloadURL(ctx context.Context, plantID int64) (string, error)
}

type Server struct {
	address string
	loader  Loader
	logger  logging.Logger
	router  *chi.Mux
}

func NewServer(addr string, l logging.Logger, loader Loader, allowedOrigins []string) *Server {
	s := &Server{
		address: addr,
		loader:  loader,
		logger:  l.With("module", "http_server"),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware(allowedOrigins)
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.resolveSession)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Post("/sessions", s.handleLogin)
		r.With(s.requireUser).Delete("/sessions", s.handleLogout)
		r.With(s.requireUser).Get("/me", s.handleMe)
	})

	s.router.Route("/plants", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleListPlants)
		r.Post("/", s.handleCreatePlant)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.requireOwner(s.loader.PlantOwnedBy))
			r.Get("/", s.handleGetPlant)
			r.Patch("/", s.handleUpdatePlant)
			r.Delete("/", s.handleDeletePlant)
			r.Post("/readings", s.handleRecordReading)
			r.Post("/photo", s.handlePhotoUpload)
			r.Get("/photo", s.handlePhotoDownload)
		})
	})

	s.router.Route("/boards", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)
		r.Get("/{id}", s.handleGetBoard)
		r.Get("/{id}/bookmarks", s.handleListBookmarks)
		r.Group(func(r chi.Router) {
			r.Use(s.requireOwner(s.loader.BoardOwnedBy))
			r.Patch("/{id}", s.handleUpdateBoard)
			r.Delete("/{id}", s.handleDeleteBoard)
			r.Post("/{id}/bookmarks", s.handleCreateBookmark)
		})
	})

	s.router.Route("/bookmarks/{id}", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Use(s.requireOwner(s.loader.BookmarkOwnedBy))
		r.Patch("/", s.handleUpdateBookmark)
		r.Delete("/", s.handleDeleteBookmark)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
