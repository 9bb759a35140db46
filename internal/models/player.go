package models

type Player struct {
	ID    int64   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name" validate:"required,max=60"`
	Email *string `db:"email" json:"email" validate:"omitempty,email,max=120"`
}
