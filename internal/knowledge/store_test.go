package knowledge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileReadsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "absent.md"))
	facts, err := s.Facts()
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestAppendThenFacts(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "knowledge.md"))
	require.NoError(t, s.Append("what is the memory limit for cache?", "512MB"))
	require.NoError(t, s.Append("who owns the api service?", "platform team"))

	facts, err := s.Facts()
	require.NoError(t, err)
	assert.Contains(t, facts, "- what is the memory limit for cache? → 512MB")
	assert.Contains(t, facts, "- who owns the api service? → platform team")
	assert.NotContains(t, facts, header)
}
