package report

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"cfohelper/internal/domain"
)

// HistoryExport is the YAML document written by WriteYAML
type HistoryExport struct {
	Username string                `yaml:"username,omitempty"`
	Entries  []domain.HistoryEntry `yaml:"entries"`
}

// EncodeYAML writes history as a YAML document
func EncodeYAML(w io.Writer, username string, history []domain.HistoryEntry) error {
	if history == nil {
		history = []domain.HistoryEntry{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(HistoryExport{Username: username, Entries: history}); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return enc.Close()
}

// WriteYAML writes history into the file at path
func WriteYAML(path, username string, history []domain.HistoryEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return EncodeYAML(f, username, history)
}
