package domain

import "time"

// Revision is a saved snapshot of a drafting in the library.
type Revision struct {
	// ID uniquely identifies the revision (UUID).
	ID string

	// DraftingID is the document the revision belongs to.
	DraftingID string

	// Name is a display name, usually the file base name.
	Name string

	// Message describes the revision.
	Message string

	// Operations and Entities summarise the snapshot.
	Operations int
	Entities   int

	// Content is the encoded document.
	Content []byte

	// CreatedAt is when the revision was saved.
	CreatedAt time.Time
}

// DraftingSummary describes one drafting kept in the library.
type DraftingSummary struct {
	ID        string
	Name      string
	Revisions int
	UpdatedAt time.Time
}
