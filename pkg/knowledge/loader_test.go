package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDocuments(t *testing.T) {
	docs, err := NewSource("").Documents()
	require.NoError(t, err)

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Text)
	}
	assert.Equal(t, []string{"coping_skills.md", "friendship_tips.md", "study_planning.md"}, names)
}

func TestDirectoryDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("bee"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("ay\xff"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("no"), 0o644))

	docs, err := NewSource(dir).Documents()
	require.NoError(t, err)

	assert.Equal(t, []Document{{Name: "a.md", Text: "ay"}, {Name: "b.md", Text: "bee"}}, docs)
}

func TestMissingDirectory(t *testing.T) {
	docs, err := NewSource(filepath.Join(t.TempDir(), "missing")).Documents()
	require.NoError(t, err)
	assert.Empty(t, docs)
}
