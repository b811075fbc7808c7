package editor

import (
	"go.uber.org/zap"

	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/graph"
)

// Renderer redraws the tree after a mutation. The session ignores anything it
// does beyond returning.
type Renderer func()

// Confirmer asks the user a yes/no question before a destructive operation.
type Confirmer func(message string) bool

// Config holds the editor behaviour read from the am configuration.
type Config struct {
	Policy         activation.Policy
	HistoryLimit   int     // 0 keeps every undo entry
	PreviewRate    float64 // live preview renders per second, 0 = unthrottled
	ConfirmDeletes bool

	DefaultShape     graph.Shape
	DefaultLinkStyle graph.LinkStyle
	DefaultPolySides int
}

// DefaultConfig returns the settings used when no configuration is loaded.
func DefaultConfig() Config {
	return Config{
		Policy:           activation.DefaultPolicy,
		HistoryLimit:     200,
		PreviewRate:      30,
		ConfirmDeletes:   true,
		DefaultShape:     graph.DefaultShape,
		DefaultLinkStyle: graph.DefaultLinkStyle,
		DefaultPolySides: 6,
	}
}

// Option configures optional session collaborators.
type Option func(*Session)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the session logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRenderer sets the callback invoked after every committed mutation.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		s.render = r
	}
}

// WithConfirmer sets the callback consulted before deletes. Without one,
// deletes that need confirmation are refused.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		s.confirm = c
	}
}
