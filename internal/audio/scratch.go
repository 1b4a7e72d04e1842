package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ScratchPrefix starts the name of every scratch directory.
const ScratchPrefix = "orchive-channels-"

// Scratch is a temporary directory holding materialised channel files for a
// single recording.
type Scratch struct {
	dir  string
	once sync.Once
	err  error
}

// NewScratch creates a fresh scratch directory under parent, or under the OS
// temp dir when parent is empty.
func NewScratch(parent string) (*Scratch, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("ensure scratch parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, ScratchPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Scratch) Dir() string {
	return s.dir
}

// Path returns the location of name inside the scratch directory.
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Close removes the scratch directory and everything in it. It is safe to call
// more than once.
func (s *Scratch) Close() error {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if err := os.RemoveAll(s.dir); err != nil {
			s.err = fmt.Errorf("remove scratch dir: %w", err)
		}
	})
	return s.err
}
