package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/yaadplay/storefront/internal/app"
	"github.com/yaadplay/storefront/internal/server"
	"github.com/yaadplay/storefront/internal/usecase"
	"github.com/yaadplay/storefront/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "YaadPlay storefront catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(server.StartServer).Run()
	},
}

var preserveIDs bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Push the fallback product list to the remote document store",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), usecase.SeedOptions{PreserveIDs: preserveIDs})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&preserveIDs, "preserve-ids", false, "use fallback product ids as document ids")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context, opts usecase.SeedOptions) error {
	var seeder usecase.SeedUsecase
	application := app.NewSeedApp(fx.Populate(&seeder))
	if err := application.Err(); err != nil {
		return err
	}
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := application.Stop(context.Background()); err != nil {
			logger.MustNamed("seed").Warnw("stop seed app", "error", err)
		}
	}()

	summary, err := seeder.SeedProducts(ctx, opts)
	if err != nil {
		return err
	}
	if summary.Errors > 0 {
		return fmt.Errorf("seeding finished with %d of %d products failed", summary.Errors, summary.Total)
	}
	return nil
}

func Execute() {
	defer logger.Sync()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
