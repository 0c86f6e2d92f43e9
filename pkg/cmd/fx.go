package cmd

import (
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/logging"
	"github.com/pseudomuto/dwh/pkg/warehouse"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(createTables, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(etlCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(listBucketContents, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(printObject, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(startCluster, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(stopCluster, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(testClusterRoundtrip, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(testRoleRoundtrip, fx.ResultTags(`group:"commands"`)),
		New,
	),
)

// Modules returns every module the dwh binary is assembled from.
func Modules(v *Version) fx.Option {
	return fx.Options(
		fx.Supply(v),
		config.Module,
		logging.Module,
		cloud.Module,
		warehouse.Module,
		Module,
	)
}
