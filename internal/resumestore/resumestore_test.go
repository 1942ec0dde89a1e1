package resumestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveListLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("jane_doe", "Jane Doe\nQA Engineer, Austin TX")
	require.NoError(t, err)
	_, err = store.Save("adam.txt", "Adam, Backend Engineer")
	require.NoError(t, err)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"adam.txt", "jane_doe.txt"}, names)

	text, err := store.Load("jane_doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nQA Engineer, Austin TX", text)
}

func TestSaveRejectsEmptyContent(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("empty", "   ")
	require.Error(t, err)
}

func TestSaveRejectsPathTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape", "text")
	require.Error(t, err)
}

func TestListIgnoresNonTextFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	_, err = store.Save("kept", "resume text")
	require.NoError(t, err)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"kept.txt"}, names)
}
