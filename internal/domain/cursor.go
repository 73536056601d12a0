package domain

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Cursor marks a position in a keyset-paginated listing. Pages are ordered by
// (created_at, id) descending; the cursor holds the last row of the previous
// page. The zero Cursor means "start from the newest row".
type Cursor struct {
	CreatedAt time.Time `json:"t"`
	ID        uuid.UUID `json:"id"`
}

// IsZero reports whether the cursor points at the start of the listing.
func (c Cursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == uuid.Nil
}

// Encode returns the opaque URL-safe form handed to clients. A zero cursor
// encodes to the empty string.
func (c Cursor) Encode() string {
	if c.IsZero() {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses the opaque form. The empty string yields the zero
// cursor; anything malformed yields ErrInvalidCursor.
func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	if c.IsZero() {
		return Cursor{}, ErrInvalidCursor
	}
	return c, nil
}
