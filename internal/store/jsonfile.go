package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aldenmoor/typeforge/internal/model"
)

const currentSchemaVersion = 1

// LoadHistory reads the JSON attempt-history document at path. A missing
// file is treated as empty history. A malformed document, a bare array of
// attempts, or an object missing schemaVersion are all coerced into a
// well-formed document rather than surfaced as errors.
func LoadHistory(path string) (model.PersistedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.PersistedDocument{SchemaVersion: currentSchemaVersion}, nil
		}
		return model.PersistedDocument{}, fmt.Errorf("failed to read history: %w", err)
	}

	var doc model.PersistedDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.SchemaVersion != 0 {
		return doc, nil
	}

	var bare []model.Attempt
	if err := json.Unmarshal(data, &bare); err == nil {
		return model.PersistedDocument{SchemaVersion: currentSchemaVersion, Attempts: bare}, nil
	}

	var legacy struct {
		Attempts []model.Attempt `json:"attempts"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil {
		return model.PersistedDocument{SchemaVersion: currentSchemaVersion, Attempts: legacy.Attempts}, nil
	}

	return model.PersistedDocument{SchemaVersion: currentSchemaVersion}, nil
}

// SaveHistory atomically writes doc to path, stamping schemaVersion if it
// was left unset.
func SaveHistory(path string, doc model.PersistedDocument) error {
	if doc.SchemaVersion == 0 {
		doc.SchemaVersion = currentSchemaVersion
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp history file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
