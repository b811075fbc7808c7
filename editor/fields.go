package editor

import (
	"math"
	"strconv"
	"strings"

	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
)

// EditLabel applies a label keystroke. The change is rendered but not
// committed until CommitEdit.
func (s *Session) EditLabel(id, text string) error {
	return s.live(id, func(n *graph.Node) { n.Label = text })
}

// EditDescription applies a description keystroke without committing.
func (s *Session) EditDescription(id, text string) error {
	return s.live(id, func(n *graph.Node) { n.Description = text })
}

// Move drags a node without committing.
func (s *Session) Move(id string, x, y float64) error {
	return s.live(id, func(n *graph.Node) {
		n.X = x
		n.Y = y
	})
}

func (s *Session) live(id string, fn func(*graph.Node)) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	s.store.MutateNode(id, fn)
	s.dirty = true
	s.livePreview()
	return nil
}

// CommitEdit ends a run of live edits. Without pending edits nothing is
// recorded.
func (s *Session) CommitEdit() error {
	if !s.dirty {
		return nil
	}
	return s.commit("live_edit")
}

// SetPosition sets coordinates from text input and commits. Text that is not
// a number counts as 0.
func (s *Session) SetPosition(id, xText, yText string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	x, xok := parseCoordinate(xText)
	y, yok := parseCoordinate(yText)
	if !xok || !yok {
		s.logger.Debugw("Malformed coordinate replaced with 0",
			logger.FieldNodeID, id,
			"x", xText,
			"y", yText,
		)
	}
	s.store.MutateNode(id, func(n *graph.Node) {
		n.X = x
		n.Y = y
	})
	return s.commit("set_position")
}

func parseCoordinate(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SetSides sets the polygon side count from text input and commits. Text that
// is not an integer is rejected and the old value kept; integers are clamped
// to the polygon range.
func (s *Session) SetSides(id, text string) error {
	if err := s.requireNode(id); err != nil {
		return err
	}
	sides, err := parseSides(text)
	if err != nil {
		return err
	}
	s.store.MutateNode(id, func(n *graph.Node) { n.PolySides = sides })
	return s.commit("set_sides")
}

func parseSides(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.WithHintf(errors.Wrapf(errors.ErrMalformedNumber, "sides %q", text),
			"enter a whole number between %d and %d", graph.MinPolySides, graph.MaxPolySides)
	}
	return graph.ClampSides(v), nil
}
