// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/styles"
)

// maxEntries bounds the activity feed; older entries fall off the end.
const maxEntries = 200

// EntryKind classifies an activity line for styling.
type EntryKind int

const (
	// EntryInfo is a neutral observation.
	EntryInfo EntryKind = iota

	// EntryChange reports indexed or repaired drift.
	EntryChange

	// EntryError reports a failure.
	EntryError
)

// Entry is one dashboard activity line.
type Entry struct {
	At   time.Time
	Kind EntryKind
	Text string
}

// ActivityList displays recent activity in a scrollable list,
// newest first.
type ActivityList struct {
	entries  []Entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewActivityList creates a new activity list component.
func NewActivityList(s *styles.Styles) *ActivityList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ActivityList{
		entries:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the activity list.
func (r *ActivityList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ActivityList) Update(msg tea.Msg) (*ActivityList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the activity list.
func (r *ActivityList) View() string {
	if len(r.entries) == 0 {
		return r.styles.Muted.Render("No activity yet")
	}

	lines := make([]string, 0, len(r.entries)+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Activity (%d)", len(r.entries)))
	lines = append(lines, header, "")

	visibleCount := r.height - 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.entries) {
		end = len(r.entries)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderEntry(i, &r.entries[i]))
	}

	return strings.Join(lines, "\n")
}

// renderEntry formats a single activity line.
func (r *ActivityList) renderEntry(index int, entry *Entry) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	ts := entry.At.Format("15:04:05")

	text := entry.Text
	maxTextLen := r.width - len(ts) - 6
	if maxTextLen < 10 {
		maxTextLen = 10
	}
	if len(text) > maxTextLen {
		text = text[:maxTextLen-3] + "..."
	}

	line := fmt.Sprintf("%s%s  %s", indicator, ts, text)

	if index == r.selected {
		return r.styles.Selected.Render(line)
	}

	switch entry.Kind {
	case EntryError:
		return r.styles.Error.Render(line)
	case EntryChange:
		return r.styles.Normal.Render(line)
	case EntryInfo:
		return r.styles.Muted.Render(line)
	}
	return r.styles.Muted.Render(line)
}

// Append adds a new entry at the top of the feed.
// A scrolled selection stays on the same entry.
func (r *ActivityList) Append(entry Entry) {
	r.entries = append([]Entry{entry}, r.entries...)
	if len(r.entries) > maxEntries {
		r.entries = r.entries[:maxEntries]
	}
	if r.selected > 0 && r.selected < len(r.entries)-1 {
		r.selected++
	}
}

// SetEntries replaces the feed contents.
func (r *ActivityList) SetEntries(entries []Entry) {
	r.entries = entries
	r.selected = 0
}

// Entries returns the current entries.
func (r *ActivityList) Entries() []Entry {
	return r.entries
}

// Selected returns the index of the selected entry.
func (r *ActivityList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ActivityList) SetSelected(index int) {
	if index >= 0 && index < len(r.entries) {
		r.selected = index
	}
}

// MoveUp moves selection up.
func (r *ActivityList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ActivityList) MoveDown() {
	if r.selected < len(r.entries)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ActivityList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ActivityList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ActivityList) Height() int {
	return r.height
}

// Count returns the number of entries.
func (r *ActivityList) Count() int {
	return len(r.entries)
}

// IsEmpty returns whether the feed is empty.
func (r *ActivityList) IsEmpty() bool {
	return len(r.entries) == 0
}
