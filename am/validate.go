package am

import (
	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/errors"
	"github.com/teranos/skilltree/graph"
	"github.com/teranos/skilltree/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty falls back to DefaultDBName

	if _, err := activation.ParsePolicy(c.Editor.ActivationPolicy); err != nil {
		return errors.Wrap(err, "editor.activation_policy")
	}

	// History limit: 0 = unbounded, negative = invalid
	if c.Editor.HistoryLimit < 0 {
		return errors.Newf("editor.history_limit must be >= 0, got %d", c.Editor.HistoryLimit)
	}

	// Preview rate: 0 = redraw on every keystroke, negative = invalid
	if c.Editor.PreviewRate < 0 {
		return errors.Newf("editor.preview_rate must be >= 0, got %f", c.Editor.PreviewRate)
	}

	if c.Defaults.Shape != "" {
		if _, err := graph.ParseShape(c.Defaults.Shape); err != nil {
			return errors.Wrap(err, "defaults.shape")
		}
	}
	if c.Defaults.LinkStyle != "" {
		if _, err := graph.ParseLinkStyle(c.Defaults.LinkStyle); err != nil {
			return errors.Wrap(err, "defaults.link_style")
		}
	}
	if c.Defaults.PolySides < graph.MinPolySides || c.Defaults.PolySides > graph.MaxPolySides {
		return errors.Newf("defaults.poly_sides must be between %d and %d, got %d",
			graph.MinPolySides, graph.MaxPolySides, c.Defaults.PolySides)
	}

	if c.Log.Theme != "" && c.Log.Theme != logger.ThemePlain && c.Log.Theme != logger.ThemeColor {
		return errors.Newf("log.theme must be %q or %q, got %q", logger.ThemePlain, logger.ThemeColor, c.Log.Theme)
	}

	return nil
}
