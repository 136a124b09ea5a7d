package assets

import "github.com/j3d/aviatrix3d-sub002/engine/assets/loaders"

// Loader turns a file on disk into packed pixel data.
type Loader interface {
	Decode(path string, params loaders.ImageParams) (*loaders.Image, error)
}
