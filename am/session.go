package am

import (
	"github.com/teranos/skilltree/activation"
	"github.com/teranos/skilltree/editor"
	"github.com/teranos/skilltree/graph"
)

// SessionConfig converts the editor and defaults sections into the settings
// an editing session runs with. The config is validated first.
func (c *Config) SessionConfig() (editor.Config, error) {
	if err := c.Validate(); err != nil {
		return editor.Config{}, err
	}
	policy, _ := activation.ParsePolicy(c.Editor.ActivationPolicy)

	cfg := editor.DefaultConfig()
	cfg.Policy = policy
	cfg.HistoryLimit = c.Editor.HistoryLimit
	cfg.PreviewRate = c.Editor.PreviewRate
	cfg.ConfirmDeletes = c.Editor.ConfirmDeletes
	cfg.DefaultPolySides = c.Defaults.PolySides
	if c.Defaults.Shape != "" {
		cfg.DefaultShape, _ = graph.ParseShape(c.Defaults.Shape)
	}
	if c.Defaults.LinkStyle != "" {
		cfg.DefaultLinkStyle, _ = graph.ParseLinkStyle(c.Defaults.LinkStyle)
	}
	return cfg, nil
}
