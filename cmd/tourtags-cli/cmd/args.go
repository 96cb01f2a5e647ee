package cmd

import (
	"tourtags/internal/application"
)

// parseID parses one store id argument.
func parseID(field, s string) (int64, error) {
	ids, err := application.ParseIDList(field, s)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, &application.ValidationError{Field: field, Message: "expected exactly one id, got " + s}
	}
	return ids[0], nil
}

// parseIDs parses id arguments, each of which may itself be a comma-separated
// list.
func parseIDs(field string, args []string) ([]int64, error) {
	return application.ParseIDList(field, args...)
}

// parseKeys parses node keys as printed by the tree command.
func parseKeys(args []string) ([]application.Key, error) {
	keys := make([]application.Key, 0, len(args))
	for _, arg := range args {
		key, err := application.ParseKey(arg)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
