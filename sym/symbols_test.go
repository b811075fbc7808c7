package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationGlyph(t *testing.T) {
	assert.Equal(t, Active, ActivationGlyph(true))
	assert.Equal(t, Locked, ActivationGlyph(false))
}

func TestNamesAreDistinct(t *testing.T) {
	seen := make(map[string]string)
	for glyph, name := range Names {
		if other, dup := seen[name]; dup {
			t.Errorf("name %q used by %q and %q", name, glyph, other)
		}
		seen[name] = glyph
	}
	assert.Equal(t, "commit", Names[Commit])
}
