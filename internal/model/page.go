package model

import "time"

type Page struct {
	NextCursor string `json:"next_cursor,omitempty"`
}

// Cursor is the keyset position of the last row of a page, ordered by
// (created_at DESC, id DESC).
type Cursor struct {
	Id        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Cursor) IsZero() bool {
	return c.Id == "" || c.CreatedAt.IsZero()
}
