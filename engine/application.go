package engine

import "github.com/j3d/aviatrix3d-sub002/engine/core"

type ApplicationConfig struct {
	// Position of the first window, if applicable. Further windows are
	// cascaded from it.
	StartPosX int
	StartPosY int
	// The application name used in windowing, if applicable.
	Name string
	// Config is the loaded configuration. Nil means core.DefaultConfig.
	Config *core.Config
}
