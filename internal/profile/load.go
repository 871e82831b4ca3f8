package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/ats-autofill/internal/schemas"
)

// LoadError represents a failure to load or validate a profile document.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("profile error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("profile error for %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Load reads, schema-validates and decodes a profile JSON file.
func Load(path string) (*Profile, error) {
	if path == "" {
		return nil, &LoadError{Path: path, Message: "profile path is empty"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read profile file", Cause: err}
	}
	p, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid profile", Cause: err}
	}
	return p, nil
}

// Parse schema-validates and decodes a profile JSON document.
func Parse(data []byte) (*Profile, error) {
	if err := schemas.ValidateProfile(data); err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
