package domain

// Event is a change notification from the data layer that the tag tree
// patches itself against.
type Event interface {
	EventName() string
}

// TagChange reports tours gaining or losing a tag.
type TagChange struct {
	TagID   int64
	TourIDs []int64
	Added   bool
}

// TourUpdate carries the new descriptive fields of one edited tour.
type TourUpdate struct {
	ID     int64
	Title  string
	TypeID int64
	TagIDs []int64
}

// TourChange reports edits to tour titles, types or tag sets.
type TourChange struct {
	Tours []TourUpdate
}

// TourDelete reports removed tours.
type TourDelete struct {
	TourIDs []int64
}

// TagStructureChange reports that tags or categories were created, removed
// or moved. The tree rebuilds from scratch.
type TagStructureChange struct{}

func (TagChange) EventName() string          { return "tag_change" }
func (TourChange) EventName() string         { return "tour_change" }
func (TourDelete) EventName() string         { return "tour_delete" }
func (TagStructureChange) EventName() string { return "tag_structure_change" }
