package topology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compose.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadUsesContainerNameWhenPresent(t *testing.T) {
	path := writeFile(t, `
services:
  cache:
    image: redis:7
    container_name: redis-cache
  api:
    image: myorg/api:latest
`)
	known, err := Load(path)
	require.NoError(t, err)
	_, hasCache := known["redis-cache"]
	_, hasAPI := known["api"]
	assert.True(t, hasCache)
	assert.True(t, hasAPI)
	assert.Len(t, known, 2)
}
