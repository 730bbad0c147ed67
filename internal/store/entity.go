package store

import "time"

// Meta carries the fields every stored record has. Domain entities embed it
// so collections can assign ids and maintain timestamps without reflection.
type Meta struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meta) meta() *Meta { return m }

// RecordID returns the store-assigned id.
func (m *Meta) RecordID() int64 { return m.ID }

// record constrains collection element pointers to types embedding Meta.
type record[T any] interface {
	*T
	meta() *Meta
}
