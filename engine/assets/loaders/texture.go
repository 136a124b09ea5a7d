package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type TextureLoader struct {
	images ImageLoader
}

// Supported reports whether path has an extension one of the registered
// decoders understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// Decode reads and decodes the file at path.
func (tl *TextureLoader) Decode(path string, params ImageParams) (*Image, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := tl.images.Decode(file, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
