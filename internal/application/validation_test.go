package application

import (
	"errors"
	"testing"

	"tourtags/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "title",
			value:     "Evening Run",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "title",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "view",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int64
		wantErr bool
	}{
		{"valid ids", []int64{1, 2, 3}, false},
		{"empty list", nil, true},
		{"zero id", []int64{1, 0}, true},
		{"negative id", []int64{-4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIDs("tourIDs", tt.ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIDs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchErrorIs(t *testing.T) {
	cause := errors.New("database is locked")
	err := error(&FetchError{Key: domain.TagKey(3), Err: cause})

	if !errors.Is(err, ErrFetchFailed) {
		t.Error("FetchError should match ErrFetchFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if err.Error() != "cannot fetch children of tag:3: database is locked" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestNodeNotFoundErrorIs(t *testing.T) {
	err := error(&NodeNotFoundError{Key: domain.YearKey(3, 2022)})
	if !errors.Is(err, ErrNotFound) {
		t.Error("NodeNotFoundError should match ErrNotFound")
	}
}
