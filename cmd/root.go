package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/product-gateway/internal/app"
	"github.com/nguyentranbao-ct/product-gateway/internal/server"
	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "product-gateway",
	Short:         "Product query and authorization gateway over REST and GraphQL",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
		).Run()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, hashPasswordCmd)
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		logger.L().Fatal("command failed", zap.Error(err))
	}
}
