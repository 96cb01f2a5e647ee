package application

import (
	"fmt"
	"strconv"
	"strings"

	"tourtags/internal/domain"
)

// Re-export domain types for use by adapters
type (
	Key        = domain.Key
	Stats      = domain.Stats
	Layout     = domain.Layout
	ViewState  = domain.ViewState
	Event      = domain.Event
	TourUpdate = domain.TourUpdate
)

// ParseKey parses a node key as printed by Key.String
func ParseKey(s string) (Key, error) {
	return domain.ParseKey(s)
}

// ParseIDList parses store ids. Each argument may itself be a
// comma-separated list; blank parts are skipped.
func ParseIDList(field string, args ...string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", formatFieldName(field), part, ErrInvalidID)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
