package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ExpandType selects how a tag groups its tours beneath it.
type ExpandType int

// Stored values of a tag's expand type.
const (
	ExpandYearMonthDay ExpandType = 0
	ExpandFlat         ExpandType = 1
	ExpandYearDay      ExpandType = 2
)

func (e ExpandType) String() string {
	switch e {
	case ExpandFlat:
		return "flat"
	case ExpandYearDay:
		return "year-day"
	default:
		return "year-month-day"
	}
}

// ParseExpandType maps a name or stored number to an ExpandType.
func ParseExpandType(s string) (ExpandType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "1":
		return ExpandFlat, nil
	case "year-day", "yd", "2":
		return ExpandYearDay, nil
	case "year-month-day", "ymd", "0", "":
		return ExpandYearMonthDay, nil
	}
	return ExpandYearMonthDay, fmt.Errorf("unknown expand type: %q", s)
}

// Layout is the shape of the root level.
type Layout int

// Persisted layout values.
const (
	LayoutFlat         Layout = 0
	LayoutHierarchical Layout = 10
)

func (l Layout) String() string {
	if l == LayoutFlat {
		return "flat"
	}
	return "hierarchical"
}

// ParseLayout maps "flat" or "hierarchical" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return LayoutFlat, nil
	case "hierarchical", "":
		return LayoutHierarchical, nil
	}
	return LayoutHierarchical, fmt.Errorf("unknown layout: %q", s)
}

// Toggle returns the other layout.
func (l Layout) Toggle() Layout {
	if l == LayoutFlat {
		return LayoutHierarchical
	}
	return LayoutFlat
}

// Category groups tags and other categories.
type Category struct {
	ID     int64
	Name   string
	IsRoot bool
}

// Tag is a user label attached to tours.
type Tag struct {
	ID         int64
	Name       string
	IsRoot     bool
	ExpandType ExpandType
}

// TourSummary is the descriptive part of a tour leaf.
type TourSummary struct {
	ID     int64
	Title  string
	TypeID int64
	Start  time.Time
	TagIDs []int64
}

// HasTag reports whether the tour carries the tag.
func (t TourSummary) HasTag(tagID int64) bool {
	return slices.Contains(t.TagIDs, tagID)
}

// TourRecord is a full tour row as written to the store.
type TourRecord struct {
	ID     int64
	Start  time.Time
	Title  string
	TypeID int64
	Totals Totals
}

// Filter restricts which tours contribute to aggregates and leaves.
// Zero values mean unrestricted.
type Filter struct {
	From        time.Time
	To          time.Time
	TourTypeIDs []int64
}

// IsZero reports whether the filter lets every tour through.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.TourTypeIDs) == 0
}
