package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/gamehub/internal/models"
	"github.com/vaughan-dsouza/gamehub/internal/store"
	"github.com/vaughan-dsouza/gamehub/internal/utils"
)

// GameStore is implemented by *store.GameStore.
type GameStore interface {
	List(ctx context.Context, search string) ([]models.Game, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, g *models.Game) error
	Update(ctx context.Context, g *models.Game) error
	Delete(ctx context.Context, id int64) error
}

type GameHandler struct {
	Games GameStore
	Log   *slog.Logger
}

func NewGameHandler(games GameStore, log *slog.Logger) *GameHandler {
	return &GameHandler{Games: games, Log: log}
}

func trimGame(g *models.Game) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Genre != nil {
		genre := strings.TrimSpace(*g.Genre)
		g.Genre = &genre
		if genre == "" {
			g.Genre = nil
		}
	}
}

// ---------------------- LIST ----------------------

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.Games.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.internal(w, r, "list games", err)
		return
	}
	utils.JSON(w, http.StatusOK, games)
}

// ---------------------- GET ONE ----------------------

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	game, err := h.Games.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		h.internal(w, r, "get game", err)
		return
	}
	utils.JSON(w, http.StatusOK, game)
}

// ---------------------- CREATE ----------------------

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var game models.Game
	if err := utils.DecodeJSON(w, r, &game); err != nil {
		return
	}
	trimGame(&game)

	if fields := utils.Validate(game); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	game.ID = 0
	if err := h.Games.Create(r.Context(), &game); err != nil {
		h.internal(w, r, "create game", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/games/%d", game.ID))
	utils.JSON(w, http.StatusCreated, game)
}

// ---------------------- UPDATE ----------------------

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var game models.Game
	if err := utils.DecodeJSON(w, r, &game); err != nil {
		return
	}
	if game.ID != id {
		utils.JSONError(w, http.StatusBadRequest, "id mismatch")
		return
	}
	trimGame(&game)

	if fields := utils.Validate(game); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	err := h.Games.Update(r.Context(), &game)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		h.internal(w, r, "update game", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- DELETE ----------------------

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.Games.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		h.internal(w, r, "delete game", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.Log.ErrorContext(r.Context(), op+" failed", "err", err)
	utils.JSONError(w, http.StatusInternalServerError, "internal error")
}
