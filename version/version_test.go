package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v1.2"
	info := Get()
	assert.Equal(t, "1.2.0", info.Version)
	assert.Contains(t, info.String(), "skilltree 1.2.0")
	assert.NotEmpty(t, info.DocumentVersion)

	Version = "dev"
	assert.Equal(t, "dev", Get().Version)
	assert.Contains(t, Get().String(), "skilltree dev")

	Version = "not-a-version"
	assert.Equal(t, "dev", Get().Version)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Info{CommitHash: "abcdef1234"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
