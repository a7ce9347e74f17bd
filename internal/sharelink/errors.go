package sharelink

import (
	"fmt"

	"github.com/creamcroissant/singprov/internal/profile"
)

// EncodingError reports an endpoint that lacks a field its link format
// requires. This is a programming-contract violation, never downgraded to a
// partially rendered link.
type EncodingError struct {
	Kind  profile.Kind
	Field string
}

func (e *EncodingError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("encode link: missing %s", e.Field)
	}
	return fmt.Sprintf("encode %s link: missing %s", e.Kind, e.Field)
}
