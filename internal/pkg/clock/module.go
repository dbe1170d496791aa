package clock

import "go.uber.org/fx"

// Module provides the wall clock to the fx graph.
var Module = fx.Provide(func() Clock { return System{} })
