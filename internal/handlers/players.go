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

// PlayerStore is implemented by *store.PlayerStore.
type PlayerStore interface {
	List(ctx context.Context, search string) ([]models.Player, error)
	Get(ctx context.Context, id int64) (*models.Player, error)
	Create(ctx context.Context, p *models.Player) error
	Update(ctx context.Context, p *models.Player) error
	Delete(ctx context.Context, id int64) error
}

type PlayerHandler struct {
	Players PlayerStore
	Log     *slog.Logger
}

func NewPlayerHandler(players PlayerStore, log *slog.Logger) *PlayerHandler {
	return &PlayerHandler{Players: players, Log: log}
}

func trimPlayer(p *models.Player) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		p.Email = &email
		if email == "" {
			p.Email = nil
		}
	}
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.Players.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.internal(w, r, "list players", err)
		return
	}
	utils.JSON(w, http.StatusOK, players)
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	player, err := h.Players.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		h.internal(w, r, "get player", err)
		return
	}
	utils.JSON(w, http.StatusOK, player)
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := utils.DecodeJSON(w, r, &player); err != nil {
		return
	}
	trimPlayer(&player)

	if fields := utils.Validate(player); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	player.ID = 0
	if err := h.Players.Create(r.Context(), &player); err != nil {
		h.internal(w, r, "create player", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/players/%d", player.ID))
	utils.JSON(w, http.StatusCreated, player)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var player models.Player
	if err := utils.DecodeJSON(w, r, &player); err != nil {
		return
	}
	if player.ID != id {
		utils.JSONError(w, http.StatusBadRequest, "id mismatch")
		return
	}
	trimPlayer(&player)

	if fields := utils.Validate(player); fields != nil {
		utils.ValidationError(w, fields)
		return
	}

	err := h.Players.Update(r.Context(), &player)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		h.internal(w, r, "update player", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := h.Players.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, "player not found")
		return
	}
	if err != nil {
		h.internal(w, r, "delete player", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.Log.ErrorContext(r.Context(), op+" failed", "err", err)
	utils.JSONError(w, http.StatusInternalServerError, "internal error")
}
