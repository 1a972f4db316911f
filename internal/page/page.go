// Package page maps the "page" navigation flag onto the two views.
package page

// State selects which view is rendered.
type State int

const (
	Chat State = iota
	About
)

// Param is the query parameter carrying the navigation flag.
const Param = "page"

// Parse reads a navigation flag. Only "about" selects the about view;
// everything else, including an empty flag, falls back to chat.
func Parse(flag string) State {
	if flag == "about" {
		return About
	}
	return Chat
}

// String returns the flag value for s.
func (s State) String() string {
	if s == About {
		return "about"
	}
	return "chat"
}

// Query returns the query string that selects s.
func (s State) Query() string {
	return "?" + Param + "=" + s.String()
}

// Toggle returns the other view.
func (s State) Toggle() State {
	if s == About {
		return Chat
	}
	return About
}
