package dataviewer

import (
	"fmt"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/hashicorp/go-uuid"
)

// Session identifies one monitor run. The name is derived from the
// configured title when present, otherwise a generated pet name, with
// a short unique suffix so repeated runs do not collide on disk or in
// redis.
type Session struct {
	Name string
	ID   string
}

func NewSession(title string) (*Session, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	base := slugify(title)
	if base == "" {
		base = petname.Generate(2, "-")
	}
	return &Session{
		Name: fmt.Sprintf("%s-%s", base, id[:8]),
		ID:   id,
	}, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
