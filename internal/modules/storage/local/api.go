package local

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func SaveFile(f io.Reader, path string) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0770)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, f)
	if err != nil {
		return err
	}
	return nil
}

// Saver writes local copies of generated images under a fixed file name.
type Saver struct {
	Filename string
}

// Name returns the file name for image n. Batches of more than one image get
// a -n suffix before the .png extension.
func (s Saver) Name(n, batch int) string {
	if batch <= 1 {
		return s.Filename
	}
	stem, _, _ := strings.Cut(s.Filename, ".png")
	return fmt.Sprintf("%s-%d.png", stem, n)
}

func (s Saver) Save(b []byte, n, batch int) (string, error) {
	name := s.Name(n, batch)
	return name, SaveFile(bytes.NewReader(b), name)
}
