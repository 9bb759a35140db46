package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/gamehub/internal/models"
)

type PlayerStore struct {
	DB *sqlx.DB
}

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{DB: db}
}

// List returns players ordered by name. A non-blank search keeps only players
// whose name contains it, ignoring case.
func (s *PlayerStore) List(ctx context.Context, search string) ([]models.Player, error) {
	players := []models.Player{}

	query := `SELECT id, name, email FROM players`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE LOWER(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY name, id`

	if err := s.DB.SelectContext(ctx, &players, s.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *PlayerStore) Get(ctx context.Context, id int64) (*models.Player, error) {
	var p models.Player
	err := s.DB.GetContext(ctx, &p, s.DB.Rebind(`
		SELECT id, name, email FROM players WHERE id = ?
	`), id)
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, notFound(err))
	}
	return &p, nil
}

// Create inserts p and sets its ID.
func (s *PlayerStore) Create(ctx context.Context, p *models.Player) error {
	err := s.DB.QueryRowxContext(ctx, s.DB.Rebind(`
		INSERT INTO players (name, email)
		VALUES (?, ?)
		RETURNING id
	`), p.Name, p.Email).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

// Update overwrites every column of the player with p.ID.
func (s *PlayerStore) Update(ctx context.Context, p *models.Player) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(`
		UPDATE players
		SET name = ?, email = ?
		WHERE id = ?
	`), p.Name, p.Email, p.ID)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return affected(res, "update player", p.ID)
}

func (s *PlayerStore) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(`DELETE FROM players WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	return affected(res, "delete player", id)
}
