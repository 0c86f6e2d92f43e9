package warehouse

import "go.uber.org/fx"

// Module provides the Dialer used to reach the warehouse.
var Module = fx.Module("warehouse", fx.Provide(
	func() Dialer { return Dial },
))
