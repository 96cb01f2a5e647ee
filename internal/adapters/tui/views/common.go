package views

import "tourtags/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Target is the selection a dialog acts on: a node and the tours below it.
type Target struct {
	Key     domain.Key
	Name    string
	TourIDs []int64
	// TagID is the nearest tag at or above the node, zero when there is none.
	TagID int64
}

// EventMsg carries a committed store change back to the owner of the tree.
type EventMsg struct {
	Event   domain.Event
	Message string
}

// ErrMsg reports a failed store change.
type ErrMsg struct {
	Err error
}

// Messages for view switching
type SwitchToTagMsg struct {
	Target Target
	Remove bool
}

type SwitchToRetitleMsg struct {
	Target Target
}

type SwitchToDeleteMsg struct {
	Target Target
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
