// Package explorer holds the interaction state of the lineage explorer:
// search text, the focused strain and its highlighted ancestry.
package explorer

import (
	"strings"

	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
)

// Direction selects which way CycleFocus moves through the timeline.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// noFocus marks the absence of a focused node.
const noFocus = -1

// Event is a state transition reported to an Observer.
type Event struct {
	Kind   string // "search", "select", "clear"
	Query  string
	NodeID string
	Year   int
}

// Observer is notified after each state transition.
type Observer func(Event)

// State is the per-node display state derived from the controller.
type State struct {
	Match       bool
	Dimmed      bool
	Highlighted bool
	Focused     bool
}

// Controller owns the explorer's mutable UI state. It is not safe for
// concurrent use; the event loop is its only caller.
type Controller struct {
	graph     *layout.Graph
	search    string
	focused   int
	highlight map[string]bool
	observer  Observer
}

// New creates a controller over g with nothing focused.
func New(g *layout.Graph) *Controller {
	return &Controller{
		graph:     g,
		focused:   noFocus,
		highlight: make(map[string]bool),
	}
}

// Observe registers fn to receive state transitions.
func (c *Controller) Observe(fn Observer) {
	c.observer = fn
}

func (c *Controller) emit(e Event) {
	if c.observer != nil {
		c.observer(e)
	}
}

// Graph returns the graph the controller operates on.
func (c *Controller) Graph() *layout.Graph { return c.graph }

// SearchText returns the current query.
func (c *Controller) SearchText() string { return c.search }

// SetSearchText updates the query. Clearing it drops focus and highlight.
func (c *Controller) SetSearchText(text string) {
	if text == c.search {
		return
	}
	c.search = text
	if text == "" {
		c.focused = noFocus
		c.highlight = make(map[string]bool)
	}
	c.emit(Event{Kind: "search", Query: text})
}

// SelectNode focuses n, puts its name in the search field and highlights
// it together with every ancestor reachable through its raw parent links.
// Nodes outside the timeline (the synthetic root) are ignored.
func (c *Controller) SelectNode(n *layout.Node) {
	if n == nil || n.IsRoot() {
		return
	}
	idx := c.indexOf(n.ID)
	if idx == noFocus {
		return
	}
	c.focused = idx
	c.search = n.Name
	c.highlight = lineage.Lineage(n.Strain)
	c.highlight[n.ID] = true
	c.emit(Event{Kind: "select", NodeID: n.ID, Query: n.Name, Year: n.Year})
}

// Select focuses the node with the given id. It reports false when the id
// is unknown.
func (c *Controller) Select(id string) bool {
	n, ok := c.graph.Node(id)
	if !ok || n.IsRoot() {
		return false
	}
	c.SelectNode(n)
	return true
}

// ClearFocus resets search, focus and highlight.
func (c *Controller) ClearFocus() {
	c.search = ""
	c.focused = noFocus
	c.highlight = make(map[string]bool)
	c.emit(Event{Kind: "clear"})
}

// CycleFocus moves focus to the next or previous strain in (year, name)
// order, wrapping at both ends. From no focus, Forward starts at the oldest
// strain and Backward at the newest.
func (c *Controller) CycleFocus(dir Direction) {
	nodes := c.graph.Sorted()
	n := len(nodes)
	if n == 0 {
		return
	}

	var next int
	switch {
	case c.focused == noFocus && dir == Forward:
		next = 0
	case c.focused == noFocus:
		next = n - 1
	case dir == Forward:
		next = wrap(c.focused+1, n)
	default:
		next = wrap(c.focused-1, n)
	}
	c.SelectNode(nodes[next])
}

// HandleKey applies the keyboard contract and reports whether key was used.
func (c *Controller) HandleKey(key string) bool {
	switch key {
	case "esc":
		c.ClearFocus()
	case "left", "up":
		c.CycleFocus(Backward)
	case "right", "down":
		c.CycleFocus(Forward)
	default:
		return false
	}
	return true
}

// Click focuses the clicked node.
func (c *Controller) Click(id string) {
	c.Select(id)
}

// ClickEmpty handles a pointer press that hit no node.
func (c *Controller) ClickEmpty() {
	c.ClearFocus()
}

// Focused returns the focused node, if any.
func (c *Controller) Focused() (*layout.Node, bool) {
	if c.focused == noFocus {
		return nil, false
	}
	nodes := c.graph.Sorted()
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[wrap(c.focused, len(nodes))], true
}

// Highlighted reports whether id is in the ancestor highlight set.
func (c *Controller) Highlighted(id string) bool { return c.highlight[id] }

// HighlightSet returns a copy of the highlight set.
func (c *Controller) HighlightSet() map[string]bool {
	out := make(map[string]bool, len(c.highlight))
	for id := range c.highlight {
		out[id] = true
	}
	return out
}

// Idle reports whether nothing is focused and no search is active.
func (c *Controller) Idle() bool {
	return c.focused == noFocus && c.search == ""
}

// Matches reports whether name passes the current search.
func (c *Controller) Matches(name string) bool {
	if c.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(c.search))
}

// State derives the display state of n.
func (c *Controller) State(n *layout.Node) State {
	s := State{
		Match:       c.Matches(n.Name),
		Highlighted: c.highlight[n.ID],
	}
	s.Dimmed = !s.Match && !s.Highlighted
	if f, ok := c.Focused(); ok {
		s.Focused = f.ID == n.ID
	}
	return s
}

// Results is the live search-result list: matching strains in timeline
// order, shown only while a query is typed that is not already the focused
// strain's name.
func (c *Controller) Results() []*layout.Node {
	if c.search == "" {
		return nil
	}
	if f, ok := c.Focused(); ok && f.Name == c.search {
		return nil
	}
	var out []*layout.Node
	for _, n := range c.graph.Sorted() {
		if c.Matches(n.Name) {
			out = append(out, n)
		}
	}
	return out
}

// SetGraph swaps in a newly built graph. Focus follows the same id when it
// still exists; otherwise the old index is wrapped into the new list.
func (c *Controller) SetGraph(g *layout.Graph) {
	var focusedID string
	if f, ok := c.Focused(); ok {
		focusedID = f.ID
	}
	c.graph = g
	if c.focused == noFocus {
		return
	}
	if g.Len() == 0 {
		c.focused = noFocus
		c.highlight = make(map[string]bool)
		return
	}
	if idx := c.indexOf(focusedID); idx != noFocus {
		c.SelectNode(g.Sorted()[idx])
		return
	}
	c.SelectNode(g.Sorted()[wrap(c.focused, g.Len())])
}

func (c *Controller) indexOf(id string) int {
	for i, n := range c.graph.Sorted() {
		if n.ID == id {
			return i
		}
	}
	return noFocus
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
