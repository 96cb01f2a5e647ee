package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateID checks that a store id is positive.
func ValidateID(fieldName string, id int64) error {
	if id <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be positive, got: %d", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidateIDs checks that a list of ids is non-empty and every id is positive.
func ValidateIDs(fieldName string, ids []int64) error {
	if len(ids) == 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("at least one %s is required", formatFieldName(fieldName)),
		}
	}
	for _, id := range ids {
		if err := ValidateID(fieldName, id); err != nil {
			return err
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "tagID" -> "tag ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"tagID":      "tag ID",
		"tourID":     "tour ID",
		"tourIDs":    "tour ID",
		"categoryID": "category ID",
		"view":       "view name",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}
