package imagebank

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoImages is returned when the image directory is missing or holds no
// usable image files.
var ErrNoImages = errors.New("no sample images available")

// Bank serves image files from a directory. The directory is re-listed on
// every draw so images added at runtime (e.g. freshly generated ones) are
// picked up.
type Bank struct {
	dir string
	rng *rand.Rand
}

// New creates a bank over dir. A nil rng falls back to the shared
// math/rand/v2 source.
func New(dir string, rng *rand.Rand) *Bank {
	return &Bank{dir: dir, rng: rng}
}

// Dir returns the directory the bank serves from.
func (b *Bank) Dir() string {
	return b.dir
}

// List returns the image file names in the directory.
func (b *Bank) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("read image directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Draw returns a uniformly random image file name, or ErrNoImages when the
// directory is missing or empty.
func (b *Bank) Draw() (string, error) {
	names, err := b.List()
	if err != nil || len(names) == 0 {
		return "", ErrNoImages
	}
	if b.rng == nil {
		return names[rand.IntN(len(names))], nil
	}
	return names[b.rng.IntN(len(names))], nil
}

// ReadFile returns the bytes and MIME type of a named image in the bank.
func (b *Bank) ReadFile(name string) ([]byte, string, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, filepath.Base(name)))
	if err != nil {
		return nil, "", fmt.Errorf("read image %s: %w", name, err)
	}
	return data, MIMEType(name), nil
}

// MIMEType maps an image file name to its MIME type by extension.
func MIMEType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
