// Package export serializes history for sharing and merges shared history
// back in. Export and import round-trip: merging an export into an empty
// history reproduces the original.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sadopc/taime/internal/store"
)

// ErrNothingToExport signals an empty history instead of an empty file.
var ErrNothingToExport = errors.New("no history to export")

// MarshalJSON renders the full history as indented JSON. Date keys come out
// sorted because encoding/json orders map keys.
func MarshalJSON(history store.History) ([]byte, error) {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	return data, nil
}

// ToJSONFile writes the JSON export to path.
func ToJSONFile(history store.History, path string) error {
	data, err := MarshalJSON(history)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
