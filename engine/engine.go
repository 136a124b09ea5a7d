// Package engine drives frames: it owns the per-context identifiers, the
// process-wide capabilities and the update phase, and renders every view's
// nodes through that view's context.
package engine

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j3d/aviatrix3d-sub002/engine/assets"
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/engine/platform"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/gl"
	"github.com/j3d/aviatrix3d-sub002/engine/renderer/metadata"
	"github.com/j3d/aviatrix3d-sub002/engine/scene/texture"
	"github.com/j3d/aviatrix3d-sub002/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// statsInterval is how often Run logs the frame and upload counters.
const statsInterval = 5 * time.Second

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *core.Config
	strategy     metadata.UpdateStrategy

	caps     *gl.Capabilities
	contexts *core.ContextRegistry
	metrics  *core.Metrics
	clock    *core.Clock
	jobs     *systems.JobSystem
	assets   *assets.Manager
	platform *platform.Platform

	// updating is set for the duration of the update phase.
	updating atomic.Bool

	mu    sync.Mutex
	views []*View
	// live counts how many views reference each node, and how many live
	// textures hold each source.
	live map[interface{}]int
	// held is the source list each live texture was counted with.
	held map[interface{}][]texture.Source

	isRunning atomic.Bool
	lastTime  float64
}

var (
	_ core.UpdateHandler     = (*Engine)(nil)
	_ texture.SourceObserver = (*Engine)(nil)
)

// New prepares an engine without touching the windowing system, so views
// over any Surface can be added straight away.
func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("%w: game needs an application config", core.ErrInvalidArgument)
	}
	cfg := g.ApplicationConfig.Config
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if err := core.ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}
	strategy, ok := metadata.ParseUpdateStrategy(cfg.Texture.UpdateStrategy)
	if !ok {
		return nil, fmt.Errorf("%w: unknown texture update strategy %q", core.ErrInvalidArgument, cfg.Texture.UpdateStrategy)
	}

	jobs, err := systems.NewJobSystem(cfg.Assets.Workers, cfg.Assets.Workers*4)
	if err != nil {
		return nil, err
	}
	am, err := assets.NewManager(cfg.Assets, jobs)
	if err != nil {
		jobs.Shutdown()
		core.LogError("%v", err)
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		strategy:     strategy,
		caps:         gl.NewCapabilities(cfg.Capabilities),
		contexts:     core.NewContextRegistry(),
		metrics:      core.NewMetrics(),
		clock:        core.NewClock(),
		jobs:         jobs,
		assets:       am,
		live:         make(map[interface{}]int),
		held:         make(map[interface{}][]texture.Source),
	}, nil
}

func (e *Engine) Config() *core.Config           { return e.config }
func (e *Engine) Capabilities() *gl.Capabilities { return e.caps }
func (e *Engine) Metrics() *core.Metrics         { return e.metrics }
func (e *Engine) Assets() *assets.Manager        { return e.assets }
func (e *Engine) Jobs() *systems.JobSystem       { return e.jobs }
func (e *Engine) Stage() Stage                   { return e.currentStage }

// IsDataWritePermitted is true only inside Update.
func (e *Engine) IsDataWritePermitted(interface{}) bool {
	return e.updating.Load()
}

// IsBoundsWritePermitted is true only inside Update.
func (e *Engine) IsBoundsWritePermitted(interface{}) bool {
	return e.updating.Load()
}

// Initialize opens the configured number of windows, one view each, then
// hands over to the game.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	app := e.gameInstance.ApplicationConfig

	e.platform = platform.New()
	if err := e.platform.Startup(); err != nil {
		return err
	}
	win := e.config.Window
	for i := 0; i < win.Count; i++ {
		title := app.Name
		if title == "" {
			title = win.Title
		}
		if win.Count > 1 {
			title = fmt.Sprintf("%s %d", title, i+1)
		}
		w, err := e.platform.CreateWindow(title, app.StartPosX+i*(win.Width+20), app.StartPosY, win.Width, win.Height)
		if err != nil {
			return err
		}
		if _, err := e.AddView(w); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// AddView gives a surface a context identifier and starts drawing it.
func (e *Engine) AddView(s Surface) (*View, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", core.ErrInvalidArgument)
	}
	v := &View{surface: s}
	id := e.contexts.Acquire(v)
	v.ctx = gl.NewContext(gl.ContextID(id), s.GL(), e.caps)
	v.ctx.Stats = e.metrics

	e.mu.Lock()
	e.views = append(e.views, v)
	e.mu.Unlock()
	core.LogInfo("view added with context %d", id)
	return v, nil
}

// Views lists the open views.
func (e *Engine) Views() []*View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.views)
}

// RemoveView frees everything the view's nodes allocated in its context
// and retires the context identifier. Other views are unaffected.
func (e *Engine) RemoveView(v *View) error {
	e.mu.Lock()
	i := slices.Index(e.views, v)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: view is not attached", core.ErrInvalidArgument)
	}
	e.views = slices.Delete(e.views, i, i+1)
	e.mu.Unlock()

	nodes, retired, _ := v.take()
	v.surface.MakeCurrent()
	for _, n := range slices.Concat(retired, nodes) {
		n.Cleanup(v.ctx)
	}
	v.surface.ReleaseCurrent()

	v.mu.Lock()
	v.nodes = nil
	v.mu.Unlock()
	for _, n := range nodes {
		e.unref(n)
	}
	core.LogInfo("view with context %d removed", v.ctx.ID)
	return e.contexts.Release(uint32(v.ctx.ID))
}

// Attach adds n to the end of v's draw list. The node, and any texture
// sources it holds, become live: from now on they may only be changed
// during the update phase.
func (e *Engine) Attach(v *View, n Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", core.ErrInvalidArgument)
	}
	v.mu.Lock()
	if v.has(n) {
		v.mu.Unlock()
		return fmt.Errorf("%w: node already attached to view %d", core.ErrInvalidArgument, v.ctx.ID)
	}
	// A node detached and attached again before the next frame must not
	// lose its resources.
	v.retired = slices.DeleteFunc(v.retired, func(r Node) bool { return r == n })
	v.nodes = append(v.nodes, n)
	v.mu.Unlock()

	e.ref(n)
	return nil
}

// Detach removes n from v. Its resources in v's context are freed on the
// next frame; it stays live while any other view still draws it.
func (e *Engine) Detach(v *View, n Node) error {
	v.mu.Lock()
	i := slices.Index(v.nodes, n)
	if i < 0 {
		v.mu.Unlock()
		return fmt.Errorf("%w: node not attached to view %d", core.ErrInvalidArgument, v.ctx.ID)
	}
	v.nodes = slices.Delete(v.nodes, i, i+1)
	v.retired = append(v.retired, n)
	v.mu.Unlock()

	e.unref(n)
	return nil
}

type sourceHolder interface {
	Sources() []texture.Source
	SetSourceObserver(o texture.SourceObserver)
}

type strategyHolder interface {
	SetUpdateStrategy(s metadata.UpdateStrategy) error
}

type liveSetter interface {
	SetLive(h core.UpdateHandler)
	ClearLive()
}

func (e *Engine) ref(n Node) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live[n]++
	if e.live[n] > 1 {
		return
	}
	// First view to draw it: apply the configured strategy while the node
	// can still be written freely.
	if s, ok := n.(strategyHolder); ok {
		if err := s.SetUpdateStrategy(e.strategy); err != nil {
			core.LogWarn("update strategy: %v", err)
		}
	}
	n.SetLive(e)
	if h, ok := n.(sourceHolder); ok {
		e.holdSources(n, h.Sources())
		h.SetSourceObserver(e)
	}
}

func (e *Engine) unref(n Node) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live[n]--
	if e.live[n] > 0 {
		return
	}
	delete(e.live, n)
	n.ClearLive()
	if h, ok := n.(sourceHolder); ok {
		h.SetSourceObserver(nil)
		e.releaseSources(e.held[n])
		delete(e.held, n)
	}
}

// SourcesChanged moves liveness from the sources a live texture dropped to
// the ones it took on. The list counted at the last change is used rather
// than old, so counts stay balanced whatever order callbacks arrive in.
func (e *Engine) SourcesChanged(owner interface{}, _, next []texture.Source) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.held[owner]
	if !ok {
		return
	}
	// Take the new ones first so a source kept across the swap never
	// drops to zero.
	e.holdSources(owner, next)
	e.releaseSources(prev)
}

// holdSources counts owner's sources and makes them live. Callers hold
// e.mu.
func (e *Engine) holdSources(owner interface{}, sources []texture.Source) {
	held := make([]texture.Source, 0, len(sources))
	for _, src := range sources {
		if ls, ok := src.(liveSetter); ok {
			e.live[src]++
			ls.SetLive(e)
			held = append(held, src)
		}
	}
	e.held[owner] = held
}

// releaseSources undoes holdSources. Callers hold e.mu.
func (e *Engine) releaseSources(sources []texture.Source) {
	for _, src := range sources {
		e.live[src]--
		if e.live[src] <= 0 {
			delete(e.live, src)
			src.(liveSetter).ClearLive()
		}
	}
}

// Update runs the update phase: asset reloads are applied and the game
// may change live nodes.
func (e *Engine) Update(delta float64) error {
	e.updating.Store(true)
	defer e.updating.Store(false)

	if e.assets != nil {
		if n := e.assets.ApplyReloads(); n > 0 {
			core.LogDebug("applied %d asset reloads", n)
		}
	}
	if e.gameInstance.FnUpdate != nil {
		return e.gameInstance.FnUpdate(e, delta)
	}
	return nil
}

// Render draws every view. With window.parallel set each view renders on
// its own locked OS thread, otherwise they render in turn.
func (e *Engine) Render(delta float64) error {
	views := e.Views()
	if !e.config.Window.Parallel || len(views) < 2 {
		for _, v := range views {
			if err := e.renderView(v, delta); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for _, v := range views {
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			return e.renderView(v, delta)
		})
	}
	return g.Wait()
}

func (e *Engine) renderView(v *View, delta float64) error {
	v.surface.MakeCurrent()
	defer v.surface.ReleaseCurrent()

	nodes, retired, clear := v.take()
	ctx := v.ctx
	f := ctx.GL
	for _, n := range retired {
		n.Cleanup(ctx)
	}

	w, h := v.surface.FramebufferSize()
	if v.resized(w, h) && e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(v, w, h); err != nil {
			return err
		}
	}
	f.Viewport(0, 0, int32(w), int32(h))
	f.ClearColor(clear[0], clear[1], clear[2], clear[3])
	f.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(v, delta); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		n.Render(ctx)
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		nodes[i].PostRender(ctx)
	}
	v.surface.SwapBuffers()
	return nil
}

// Frame runs one update phase followed by one render of every view.
func (e *Engine) Frame(delta float64) error {
	start := time.Now()
	if err := e.Update(delta); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := e.Render(delta); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	e.metrics.Update(time.Since(start).Seconds())
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64 = 1.0 / 60.0
	lastStats := time.Now()

	e.isRunning.Store(true)
	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
		}
		e.closeFinishedViews()
		if len(e.Views()) == 0 {
			break
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if err := e.Frame(delta); err != nil {
			core.LogError("frame failed, shutting down: %v", err)
			e.isRunning.Store(false)
			break
		}

		// Give back what is left of the frame to the OS.
		remainingSeconds := targetFrameSeconds - (platform.GetAbsoluteTime() - frameStartTime)
		if remainingSeconds > 0.001 {
			e.platform.Sleep(remainingSeconds*1000 - 1)
		}

		if time.Since(lastStats) > statsInterval {
			fps, ms := e.metrics.Frame()
			buffers, textures, subImages := e.metrics.Uploads()
			core.LogDebug("%.1f fps (%.2f ms), uploads: %d buffers %d textures %d sub-images", fps, ms, buffers, textures, subImages)
			lastStats = time.Now()
		}
		e.lastTime = currentTime
	}
	return nil
}

// closeFinishedViews drops the views whose windows were asked to close.
func (e *Engine) closeFinishedViews() {
	for _, v := range e.Views() {
		w, ok := v.surface.(*platform.Window)
		if !ok || !w.ShouldClose() {
			continue
		}
		if err := e.RemoveView(v); err != nil {
			core.LogError("%v", err)
		}
		e.platform.DestroyWindow(w)
	}
}

// Stop asks Run to return after the current frame.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	for _, v := range e.Views() {
		if err := e.RemoveView(v); err != nil {
			core.LogError("%v", err)
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("%v", err)
		}
	}
	if err := e.assets.Close(); err != nil {
		core.LogWarn("%v", err)
	}
	if err := e.jobs.Shutdown(); err != nil {
		return err
	}
	if e.platform != nil {
		return e.platform.Shutdown()
	}
	return nil
}
