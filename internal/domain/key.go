package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant identifies the level a node occupies in the tag tree.
type Variant int

const (
	VariantRoot Variant = iota
	VariantCategory
	VariantTag
	VariantYear
	VariantMonth
	VariantTour
)

func (v Variant) String() string {
	switch v {
	case VariantRoot:
		return "root"
	case VariantCategory:
		return "category"
	case VariantTag:
		return "tag"
	case VariantYear:
		return "year"
	case VariantMonth:
		return "month"
	case VariantTour:
		return "tour"
	default:
		return "unknown"
	}
}

// Key is the identity of a node. It survives rebuilds, so expand state and
// event patches address nodes by Key rather than by arena slot.
//
// ID holds the category, tag or tour id. Year and month nodes keep the id of
// the tag they belong to in ID.
type Key struct {
	Variant Variant
	ID      int64
	Year    int
	Month   int
}

// RootKey is the key of the invisible root.
var RootKey = Key{Variant: VariantRoot}

func CategoryKey(id int64) Key { return Key{Variant: VariantCategory, ID: id} }

func TagKey(id int64) Key { return Key{Variant: VariantTag, ID: id} }

func YearKey(tagID int64, year int) Key {
	return Key{Variant: VariantYear, ID: tagID, Year: year}
}

func MonthKey(tagID int64, year, month int) Key {
	return Key{Variant: VariantMonth, ID: tagID, Year: year, Month: month}
}

func TourKey(id int64) Key { return Key{Variant: VariantTour, ID: id} }

// IsLeaf reports whether nodes with this key never have children.
func (k Key) IsLeaf() bool {
	return k.Variant == VariantTour
}

// String renders the key as "variant:id", with year and month appended for
// calendar nodes ("year:3/2022", "month:3/2022-04").
func (k Key) String() string {
	switch k.Variant {
	case VariantRoot:
		return "root"
	case VariantYear:
		return fmt.Sprintf("year:%d/%d", k.ID, k.Year)
	case VariantMonth:
		return fmt.Sprintf("month:%d/%d-%02d", k.ID, k.Year, k.Month)
	default:
		return fmt.Sprintf("%s:%d", k.Variant, k.ID)
	}
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "root" {
		return RootKey, nil
	}

	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("invalid node key %q: missing ':'", s)
	}

	switch kind {
	case "category", "tag", "tour":
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("invalid node key %q: %w", s, err)
		}
		switch kind {
		case "category":
			return CategoryKey(id), nil
		case "tag":
			return TagKey(id), nil
		}
		return TourKey(id), nil

	case "year":
		var tagID int64
		var year int
		if _, err := fmt.Sscanf(rest, "%d/%d", &tagID, &year); err != nil {
			return Key{}, fmt.Errorf("invalid node key %q: %w", s, err)
		}
		return YearKey(tagID, year), nil

	case "month":
		var tagID int64
		var year, month int
		if _, err := fmt.Sscanf(rest, "%d/%d-%d", &tagID, &year, &month); err != nil {
			return Key{}, fmt.Errorf("invalid node key %q: %w", s, err)
		}
		if month < 1 || month > 12 {
			return Key{}, fmt.Errorf("invalid node key %q: month out of range", s)
		}
		return MonthKey(tagID, year, month), nil
	}

	return Key{}, fmt.Errorf("invalid node key %q: unknown variant %q", s, kind)
}
