package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/gamehub/internal/auth"
	"github.com/vaughan-dsouza/gamehub/internal/middleware"
	"github.com/vaughan-dsouza/gamehub/internal/store"
	"github.com/vaughan-dsouza/gamehub/internal/utils"
)

type Handler struct {
	Auth     *AuthHandler
	Games    *GameHandler
	Players  *PlayerHandler
	Verifier middleware.TokenVerifier
	Log      *slog.Logger
}

// Deps is everything NewHandler wires together.
type Deps struct {
	DB       *sqlx.DB
	Hasher   *auth.PasswordHasher
	Issuer   *auth.Issuer
	Verifier *auth.Verifier
	Log      *slog.Logger
}

func NewHandler(d Deps) *Handler {
	creds := auth.NewCredentials(store.NewUserStore(d.DB), d.Hasher)
	return &Handler{
		Auth:     NewAuthHandler(creds, d.Issuer, d.Log),
		Games:    NewGameHandler(store.NewGameStore(d.DB), d.Log),
		Players:  NewPlayerHandler(store.NewPlayerStore(d.DB), d.Log),
		Verifier: d.Verifier,
		Log:      d.Log,
	}
}

// Routes builds the full API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(h.Log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", Health)

	// Public
	r.Post("/api/auth/register", h.Auth.Register)
	r.Post("/api/auth/login", h.Auth.Login)

	// Protected
	r.Get("/api/me", middleware.Authenticated(h.Verifier, h.Auth.Me))

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", h.Games.List)
		r.Post("/", h.Games.Create)
		r.Get("/{id}", h.Games.Get)
		r.Put("/{id}", h.Games.Update)
		r.Delete("/{id}", h.Games.Delete)
	})

	r.Route("/api/players", func(r chi.Router) {
		r.Get("/", h.Players.List)
		r.Post("/", h.Players.Create)
		r.Get("/{id}", h.Players.Get)
		r.Put("/{id}", h.Players.Update)
		r.Delete("/{id}", h.Players.Delete)
	})

	return r
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, "Game Hub API running")
}

// pathID parses the {id} URL parameter. Anything but a positive integer is
// a 404, as there is no such resource.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
