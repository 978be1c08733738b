package session

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Param is the query parameter carrying the conversation identifier.
const Param = "session_id"

// Resolution is the outcome of resolving a session identifier from a page URL.
type Resolution struct {
	ID string
	// PageURL is the input URL, rewritten to carry the identifier when one
	// had to be generated.
	PageURL   string
	Generated bool
}

// Resolve reuses the session identifier carried by pageURL, or generates a
// fresh one and injects it into the returned URL. The identifier is fixed for
// the lifetime of the client; callers must not resolve twice.
func Resolve(pageURL string) (Resolution, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Resolution{}, fmt.Errorf("parse page url: %w", err)
	}

	q := u.Query()
	if id := q.Get(Param); id != "" {
		return Resolution{ID: id, PageURL: pageURL}, nil
	}

	id := uuid.NewString()
	q.Set(Param, id)
	u.RawQuery = q.Encode()
	return Resolution{ID: id, PageURL: u.String(), Generated: true}, nil
}
