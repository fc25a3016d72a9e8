package driven

import (
	"io"

	"github.com/seamwork/drafter/internal/core/domain"
)

// DraftingCodec reads and writes the drafting document format.
type DraftingCodec interface {
	// Decode parses a document. Structural failures are *domain.ParseError.
	Decode(r io.Reader) (*domain.Drafting, error)

	// Encode writes a document such that Decode reproduces it.
	Encode(w io.Writer, d *domain.Drafting) error

	// Extension returns the file extension of the format, with the dot.
	Extension() string
}
