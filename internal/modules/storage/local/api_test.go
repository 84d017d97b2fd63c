package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaverName(t *testing.T) {
	s := Saver{Filename: "out/fox.png"}
	require.Equal(t, "out/fox.png", s.Name(0, 1))
	require.Equal(t, "out/fox-2.png", s.Name(2, 3))
	require.Equal(t, "fox-0.png", Saver{Filename: "fox"}.Name(0, 2))
}

func TestSaverSave(t *testing.T) {
	dir := t.TempDir()
	s := Saver{Filename: filepath.Join(dir, "nested", "fox.png")}
	name, err := s.Save([]byte("data"), 1, 2)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "nested", "fox-1.png"), name)
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, []byte("data"), b)
}
