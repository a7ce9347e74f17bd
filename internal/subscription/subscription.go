// Package subscription aggregates share links into the encoded bundle that
// client applications fetch and decode line by line.
package subscription

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/creamcroissant/singprov/internal/sharelink"
)

// Encode joins the links one per line, preserving their order, and encodes
// the whole text as a single base64 document with no embedded whitespace.
func Encode(links []sharelink.Link) string {
	var b strings.Builder
	for i, link := range links {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(link.URL)
	}
	return base64.StdEncoding.EncodeToString([]byte(b.String()))
}

// Decode reverses Encode, returning the ordered list of raw link strings.
// The bundle is a pure function of the link set, so decode(encode(x)) == x.
func Decode(bundle string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(bundle))
	if err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return strings.Split(string(raw), "\n"), nil
}
