package receipts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		ok   bool
	}{
		{"receipt.pdf", "pdf", true},
		{"receipt.PNG", "png", true},
		{"scan.final.Jpg", "jpg", true},
		{"receipt.jpeg", "jpeg", false},
		{"receipt.exe", "exe", false},
		{"receipt", "", false},
		{"receipt.", "", false},
	}
	for _, tc := range cases {
		ext, ok := Extension(tc.name)
		assert.Equal(t, tc.ext, ext, tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Payment_receipt_1001_5_7.png", FileName(1001, 5, 7, "png"))
}

func TestReplaceDeletesPreviousReceipt(t *testing.T) {
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	prefix := Prefix(1001, 5, 7)

	first, err := store.Replace(prefix, "pdf", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "Payment_receipt_1001_5_7.pdf", first)

	// receipts of other applications must survive, including application 70
	_, err = store.Replace(Prefix(1001, 5, 70), "png", strings.NewReader("other"))
	require.NoError(t, err)

	second, err := store.Replace(prefix, "png", strings.NewReader("second"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(store.Dir(), first))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(store.Dir(), second))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRemove(t *testing.T) {
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	name, err := store.Replace(Prefix(1001, 5, 7), "pdf", strings.NewReader("receipt"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(name))
	_, err = os.Stat(filepath.Join(store.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Remove(name))
}
