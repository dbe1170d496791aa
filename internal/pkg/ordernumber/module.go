package ordernumber

import "go.uber.org/fx"

// Module provides the random order number generator.
var Module = fx.Provide(func() Generator { return Random{} })
