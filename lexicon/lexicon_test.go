package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWords(t *testing.T, path string, lines string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
}

func TestWordsLayersAndDeduplicates(t *testing.T) {
	base := t.TempDir()
	writeWords(t, filepath.Join(base, "3-6", "greetings", "words.txt"), "hello\nhi\n")
	writeWords(t, filepath.Join(base, "3-6", "words.txt"), "# band-wide words\nhi\nbye\n")
	writeWords(t, filepath.Join(base, "greetings", "words.txt"), "hello\nmorning\n")

	d := NewDir(base)
	assert.Equal(t, []string{"hello", "hi", "bye", "morning"}, d.Words("3-6", "greetings"))
}

func TestWordsSkipsCommentsAndBlanks(t *testing.T) {
	base := t.TempDir()
	writeWords(t, filepath.Join(base, "3-6", "phonics", "words.txt"), "# header\n\napple\n  ball  \n")

	d := NewDir(base)
	assert.Equal(t, []string{"apple", "ball"}, d.Words("3-6", "phonics"))
}

func TestWordsMissingFilesAreEmpty(t *testing.T) {
	d := NewDir(t.TempDir())
	assert.Empty(t, d.Words("3-6", "greetings"))
}

func TestEmptyBaseReturnsNothing(t *testing.T) {
	d := NewDir("")
	assert.Nil(t, d.Words("3-6", "greetings"))
	assert.Empty(t, d.Sample("3-6", "greetings", 3))
}

func TestSampleLimits(t *testing.T) {
	base := t.TempDir()
	writeWords(t, filepath.Join(base, "3-6", "greetings", "words.txt"), "a\nb\nc\nd\n")

	d := NewDir(base)
	assert.Equal(t, []string{"a", "b"}, d.Sample("3-6", "greetings", 2))
	assert.Len(t, d.Sample("3-6", "greetings", 10), 4)
}
