package singbox

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/creamcroissant/singprov/internal/artifact"
)

// Marshal serializes the document with stable two-space indentation so
// repeated runs over the same profile are byte-identical.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal server config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile marshals the document and writes it atomically to path.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return artifact.WriteAtomic(path, data, 0o644)
}
