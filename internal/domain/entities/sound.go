package entities

import "time"

// Sound is a custom alarm sound registered by the owner.
type Sound struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Path      string    `db:"path" json:"path"` // file location inside the sounds directory
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
