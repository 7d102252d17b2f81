// Package whitelist provides the local file and remote HTTP exemption sources.
package whitelist

import (
	"fmt"
	"os"
	"strings"

	"github.com/squadgate/gatekeeper/internal/domain/model"
)

// LoadLocal reads the local whitelist file: one identifier per line.
// Blank lines are skipped. The file is read once, at startup.
func LoadLocal(path string) ([]model.Identifier, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return parseLines(string(content)), nil
}

func parseLines(text string) []model.Identifier {
	var ids []model.Identifier
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, model.Identifier(line))
	}
	return ids
}
