package helper

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID creates a random unique UUID string for stored chunks.
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// PrettyJSON renders v as indented JSON for CLI output.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
