package emit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrWrite indicates the output artifact could not be written.
var ErrWrite = errors.New("output write failed")

// WriteFile serializes events as one indented JSON array at path, replacing
// any existing content.
func WriteFile(path string, events []map[string]any) error {
	b, err := encode(events)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Write serializes events as one indented JSON array to w.
func Write(w io.Writer, events []map[string]any) error {
	b, err := encode(events)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func encode(events []map[string]any) ([]byte, error) {
	// an empty collection still serializes as a valid array
	if events == nil {
		events = []map[string]any{}
	}
	b, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
