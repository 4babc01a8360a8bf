package lexer

import (
	"log/slog"
	"os"

	perrors "plum/internal/errors"
)

// Host opens files for the engine.
type Host struct {
	logger *slog.Logger
}

// NewHost creates a host reading from disk.
func NewHost(logger *slog.Logger) *Host {
	return &Host{logger: logger}
}

// Read returns the content of path.
func (h *Host) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.New(perrors.FileUnreadable, "cannot read "+path, err)
	}
	return content, nil
}

// Open reads and tokenizes path.
func (h *Host) Open(path string) (*Source, error) {
	content, err := h.Read(path)
	if err != nil {
		return nil, err
	}
	return h.Parse(path, content)
}

// Parse tokenizes content read for path.
func (h *Host) Parse(path string, content []byte) (*Source, error) {
	src, err := NewSource(path, content)
	if err != nil {
		return nil, err
	}
	if src.IsBinary() {
		h.logger.Debug("Skipping binary file", "file", path)
	}
	return src, nil
}
