package application

import (
	"errors"
	"slices"
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int64
		wantErr bool
	}{
		{name: "single", args: []string{"7"}, want: []int64{7}},
		{name: "comma list", args: []string{"7,8, 9"}, want: []int64{7, 8, 9}},
		{name: "mixed args", args: []string{"7", "8,9"}, want: []int64{7, 8, 9}},
		{name: "blank parts", args: []string{",7,,"}, want: []int64{7}},
		{name: "empty", args: nil, want: nil},
		{name: "not a number", args: []string{"7,x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList("tourIDs", tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIDList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidID) {
					t.Errorf("error %v should match ErrInvalidID", err)
				}
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseIDList() = %v, want %v", got, tt.want)
			}
		})
	}
}
