package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/gamehub/internal/models"
)

type GameStore struct {
	DB *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{DB: db}
}

// List returns games ordered by name. A non-blank search keeps only games
// whose name contains it, ignoring case.
func (s *GameStore) List(ctx context.Context, search string) ([]models.Game, error) {
	games := []models.Game{}

	query := `SELECT id, name, genre, release_year FROM games`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY name, id`

	if err := s.DB.SelectContext(ctx, &games, s.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *GameStore) Get(ctx context.Context, id int64) (*models.Game, error) {
	var g models.Game
	err := s.DB.GetContext(ctx, &g, s.DB.Rebind(`
		SELECT id, name, genre, release_year FROM games WHERE id = ?
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, notFound(err))
	}
	return &g, nil
}

// Create inserts g and sets its ID.
func (s *GameStore) Create(ctx context.Context, g *models.Game) error {
	err := s.DB.QueryRowxContext(ctx, s.DB.Rebind(`
		INSERT INTO games (name, genre, release_year)
		VALUES (?, ?, ?)
		RETURNING id
	`), g.Name, g.Genre, g.ReleaseYear).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// Update overwrites every column of the game with g.ID.
func (s *GameStore) Update(ctx context.Context, g *models.Game) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(`
		UPDATE games
		SET name = ?, genre = ?, release_year = ?
		WHERE id = ?
	`), g.Name, g.Genre, g.ReleaseYear, g.ID)
	if err != nil {
		return fmt.Errorf("update game %d: %w", g.ID, err)
	}
	return affected(res, "update game", g.ID)
}

func (s *GameStore) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(`DELETE FROM games WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	return affected(res, "delete game", id)
}
