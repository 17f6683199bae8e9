package models

import "time"

// Note belongs to exactly one user.
type Note struct {
	ID        int64
	UserID    int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteUpdate carries a partial update; nil fields stay unchanged.
type NoteUpdate struct {
	Title *string
	Body  *string
}

// Apply returns a copy of n with the non-nil fields of u applied.
func (u NoteUpdate) Apply(n Note) Note {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Body != nil {
		n.Body = *u.Body
	}
	return n
}
