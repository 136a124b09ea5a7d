package engine

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

// Initialize runs once the engine has opened its views.
type Initialize func(e *Engine) error

// Update runs inside the update phase, the only time live nodes may be
// changed.
type Update func(e *Engine, deltaTime float64) error

// Render runs for each view after it is cleared and before its nodes are
// drawn, with the view's context current.
type Render func(v *View, deltaTime float64) error

type OnResize func(v *View, width int, height int) error
type Shutdown func() error
