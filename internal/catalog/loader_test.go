package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `[
		{"name": "Engagement Ring 1", "popularityScore": 0.85, "weight": 2.1,
		 "images": {"yellow": "y1.jpg", "white": "w1.jpg", "rose": "r1.jpg"}},
		{"name": "Engagement Ring 2", "popularityScore": 0.51, "weight": 3.4,
		 "images": {"yellow": "y2.jpg", "white": "w2.jpg", "rose": "r2.jpg"}}
	]`)

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "Engagement Ring 1", items[0].Name)
	assert.Equal(t, 0.85, items[0].PopularityScore)
	assert.Equal(t, 2.1, items[0].Weight)
	assert.Equal(t, "r1.jpg", items[0].Images.Rose)
	assert.Equal(t, "2", items[1].ID)
}

func TestLoadIgnoresIDInFile(t *testing.T) {
	path := writeCatalog(t, `[{"id": "abc", "name": "Ring", "popularityScore": 0.6, "weight": 5,
		"images": {"yellow": "y", "white": "w", "rose": "r"}}]`)

	items, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1", items[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	items, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	var derr *DataError
	require.True(t, errors.As(err, &derr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, items)
}

func TestLoadNotAnArray(t *testing.T) {
	for _, content := range []string{`{"name": "Ring"}`, `not json`, `"text"`} {
		items, err := Load(writeCatalog(t, content))
		var derr *DataError
		assert.True(t, errors.As(err, &derr), content)
		assert.Empty(t, items)
	}
}

func TestLoadSkipsInvalidEntriesKeepingPositions(t *testing.T) {
	path := writeCatalog(t, `[
		{"name": "ok", "popularityScore": 0.5, "weight": 1, "images": {"yellow": "y", "white": "w", "rose": "r"}},
		{"name": "no weight", "popularityScore": 0.5, "weight": 0, "images": {"yellow": "y", "white": "w", "rose": "r"}},
		{"name": "too popular", "popularityScore": 1.5, "weight": 1, "images": {"yellow": "y", "white": "w", "rose": "r"}},
		{"name": "no rose", "popularityScore": 0.5, "weight": 1, "images": {"yellow": "y", "white": "w"}},
		{"name": "bad type", "popularityScore": "high", "weight": 1},
		{"name": "also ok", "popularityScore": 0, "weight": 2, "images": {"yellow": "y", "white": "w", "rose": "r"}}
	]`)

	items, err := Load(path)
	var derr *DataError
	require.True(t, errors.As(err, &derr))
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "6", items[1].ID)
	assert.Contains(t, err.Error(), "4 invalid entries")
}

func TestLoadOrEmpty(t *testing.T) {
	logger := zap.NewNop()

	items := LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"), logger)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items = LoadOrEmpty(writeCatalog(t, `{}`), logger)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items = LoadOrEmpty(writeCatalog(t, `[]`), logger)
	assert.Empty(t, items)
}
