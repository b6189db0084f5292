package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/product-gateway/internal/app"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

var seedReset bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample product catalogue into the configured collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		var seeded int
		fxApp := app.Invoke(func(lc fx.Lifecycle, repo mongodb.ProductRepository) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) (err error) {
					seeded, err = usecase.SeedProducts(ctx, repo, seedReset)
					return err
				},
			})
		})

		if err := fxApp.Start(cmd.Context()); err != nil {
			return err
		}
		defer fxApp.Stop(context.Background()) //nolint:errcheck

		logger.MustNamed("seed").Infow("seed finished", "inserted", seeded, "reset", seedReset)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete every product before seeding")
}
