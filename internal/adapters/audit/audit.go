// Package audit records suspected accounts to an append-only sink.
package audit

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/squadgate/gatekeeper/internal/domain/model"
)

const filePerm = 0o644

// FileSink appends `name, identifier` lines to a file. Identifiers land
// here when the identity service yielded nothing usable, which is triaged
// separately from low scores.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink writing to path. The file is created on first
// record.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Record appends one suspected-account line.
func (s *FileSink) Record(_ context.Context, name string, id model.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "%s, %s\n", name, id); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return nil
}
