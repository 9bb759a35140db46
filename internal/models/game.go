package models

type Game struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name" validate:"required,max=100"`
	Genre       *string `db:"genre" json:"genre" validate:"omitempty,max=50"`
	ReleaseYear *int    `db:"release_year" json:"releaseYear" validate:"omitempty,min=1970,max=2100"`
}
