// Package assets loads image files into texture sources and keeps them in
// step with the files on disk.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/j3d/aviatrix3d-sub002/engine/assets/loaders"
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/texture"
	"github.com/j3d/aviatrix3d-sub002/engine/systems"
)

var ErrManagerClosed = errors.New("asset manager already closed")

type cacheKey struct {
	path   string
	params loaders.ImageParams
}

// reload is a decoded file waiting for the update phase.
type reload struct {
	path string
	src  *texture.ImageSource
	img  *loaders.Image
}

// Manager decodes image files into texture sources. Sources are cached by
// path, so every texture built from the same file shares one source. When
// watching is enabled, a changed file is decoded again on the job system
// and the new pixels are swapped in by ApplyReloads.
type Manager struct {
	dir    string
	loader Loader
	jobs   *systems.JobSystem
	cache  *lru.Cache[cacheKey, *texture.ImageSource]

	mutex   sync.Mutex
	pending []reload

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	isClosed bool
}

// NewManager creates a manager rooted at cfg.Dir. Reload decoding runs on
// jobs, which the caller owns.
func NewManager(cfg core.AssetConfig, jobs *systems.JobSystem) (*Manager, error) {
	return newManager(cfg, jobs, &loaders.TextureLoader{})
}

func newManager(cfg core.AssetConfig, jobs *systems.JobSystem, loader Loader) (*Manager, error) {
	if jobs == nil {
		return nil, fmt.Errorf("%w: asset manager needs a job system", core.ErrInvalidArgument)
	}
	cache, err := lru.New[cacheKey, *texture.ImageSource](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%w: asset cache for %s: %v", core.ErrInvalidArgument, cfg.Dir, err)
	}
	am := &Manager{
		dir:    cfg.Dir,
		loader: loader,
		jobs:   jobs,
		cache:  cache,
		done:   make(chan struct{}),
	}
	if !cfg.Watch {
		return am, nil
	}
	if _, err := os.Stat(am.dir); errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("asset directory %s does not exist, not watching", am.dir)
		return am, nil
	}

	am.fsnotify, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := am.watchRecursive(am.dir); err != nil {
		am.fsnotify.Close()
		return nil, err
	}
	am.wg.Add(1)
	go am.start()
	return am, nil
}

// Path resolves a name relative to the asset directory.
func (am *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(am.dir, name)
}

// LoadImage returns the source for name, decoding it on first use.
func (am *Manager) LoadImage(name string, params loaders.ImageParams) (*texture.ImageSource, error) {
	key := cacheKey{path: am.Path(name), params: params}
	if src, ok := am.cache.Get(key); ok {
		return src, nil
	}

	img, err := am.loader.Decode(key.path, params)
	if err != nil {
		return nil, err
	}
	src, err := texture.NewImageSource(img.Width, img.Height, img.Format, img.Levels...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key.path, err)
	}
	// Another caller may have raced us to it. Keep the first so all
	// textures share a source.
	if prev, ok, _ := am.cache.PeekOrAdd(key, src); ok {
		return prev, nil
	}
	core.LogDebug("loaded %s (%dx%d %d levels)", key.path, img.Width, img.Height, len(img.Levels))
	return src, nil
}

// LoadCubeSources decodes the six faces of a cube map in parallel, in
// FacePositiveX..FaceNegativeZ order.
func (am *Manager) LoadCubeSources(faces [6]string, params loaders.ImageParams) ([]texture.Source, error) {
	sources := make([]texture.Source, len(faces))
	var g errgroup.Group
	for i, name := range faces {
		g.Go(func() error {
			src, err := am.LoadImage(name, params)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadTexture2D builds a 2D texture over the source for name.
func (am *Manager) LoadTexture2D(name string, mipMode metadata.MipMode) (*texture.Texture2D, error) {
	src, err := am.LoadImage(name, loaders.ImageParams{FlipY: true, Mipmaps: mipMode == metadata.MipModeMipmap})
	if err != nil {
		return nil, err
	}
	return texture.NewTexture2DFromSource(mipMode, src.Format(), src)
}

// LoadCubeMap builds a cube map from six face files.
func (am *Manager) LoadCubeMap(faces [6]string, mipMode metadata.MipMode) (*texture.TextureCubicEnvironmentMap, error) {
	sources, err := am.LoadCubeSources(faces, loaders.ImageParams{Mipmaps: mipMode == metadata.MipModeMipmap})
	if err != nil {
		return nil, err
	}
	cube := texture.NewTextureCubicEnvironmentMap()
	if err := cube.SetSources(mipMode, sources[0].Format(), sources, len(sources)); err != nil {
		return nil, err
	}
	return cube, nil
}

// Reload schedules every cached source decoded from path to be decoded
// again. The new pixels are held until ApplyReloads. It returns the number
// of sources scheduled.
func (am *Manager) Reload(path string) (int, error) {
	path = filepath.Clean(path)
	scheduled := 0
	for _, key := range am.cache.Keys() {
		if key.path != path {
			continue
		}
		src, ok := am.cache.Peek(key)
		if !ok {
			continue
		}
		params := key.params
		err := am.jobs.Submit(metadata.JobTask{
			Name: "reload " + path,
			OnStart: func() error {
				img, err := am.loader.Decode(path, params)
				if err != nil {
					return err
				}
				am.mutex.Lock()
				am.pending = append(am.pending, reload{path: path, src: src, img: img})
				am.mutex.Unlock()
				return nil
			},
		})
		if err != nil {
			return scheduled, err
		}
		scheduled++
	}
	return scheduled, nil
}

// PendingReloads is the number of decoded files waiting for ApplyReloads.
func (am *Manager) PendingReloads() int {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	return len(am.pending)
}

// ApplyReloads swaps decoded pixels into their sources. Sources may be live,
// so this must run while the update handler permits data writes. It
// returns how many sources were replaced.
func (am *Manager) ApplyReloads() int {
	am.mutex.Lock()
	pending := am.pending
	am.pending = nil
	am.mutex.Unlock()

	applied := 0
	for _, r := range pending {
		if err := r.src.Replace(r.img.Width, r.img.Height, r.img.Format, r.img.Levels...); err != nil {
			core.LogError("reload %s: %v", r.path, err)
			continue
		}
		core.LogInfo("reloaded %s", r.path)
		applied++
	}
	return applied
}

// Close stops watching. Pending reloads are discarded.
func (am *Manager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return ErrManagerClosed
	}
	am.isClosed = true
	am.pending = nil
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

func (am *Manager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %v", err)

		case <-am.done:
			return
		}
	}
}

func (am *Manager) handleEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("watch %s: %v", e.Name, err)
			}
		}
		return
	}
	// A rename into place arrives as Create, an in-place save as Write.
	if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
		return
	}
	if !loaders.Supported(e.Name) {
		return
	}
	if _, err := am.Reload(e.Name); err != nil {
		core.LogWarn("reload %s: %v", e.Name, err)
	}
}

// watchRecursive adds dir and every directory under it to the watch list.
func (am *Manager) watchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return am.fsnotify.Add(path)
		}
		return nil
	})
}
