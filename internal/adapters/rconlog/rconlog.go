// Package rconlog extracts player identifiers from the RCON connection log.
package rconlog

import (
	"fmt"
	"os"
	"regexp"

	"github.com/squadgate/gatekeeper/internal/domain/model"
)

// identifierPattern matches the connection lines the game server writes.
var identifierPattern = regexp.MustCompile(`steam: (\d{17})`)

// Reader re-reads the full log on every call. The log only grows; offset
// tracking is deliberately avoided so identifiers are re-evaluated each
// cycle (account state can change between cycles).
type Reader struct {
	path string
}

// NewReader creates a Reader over the log at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ExtractIdentifiers returns every identifier in the log, in first-seen
// order. Duplicates are preserved.
func (r *Reader) ExtractIdentifiers() ([]model.Identifier, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return Extract(string(content)), nil
}

// Extract scans text for identifiers, in order of appearance.
func Extract(text string) []model.Identifier {
	matches := identifierPattern.FindAllStringSubmatch(text, -1)
	ids := make([]model.Identifier, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, model.Identifier(m[1]))
	}
	return ids
}
