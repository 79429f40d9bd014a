package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rulemint/treeflat/flatten"
	"github.com/rulemint/treeflat/internal"
)

var rootNodeID int

var flattenCmd = &cobra.Command{
	Use:   "flatten <input tree file> <output strategies file>",
	Short: "Flatten a decision tree file into one conjunction strategy per leaf",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println("usage: treeflat flatten <input tree file> <output strategies file>")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := flatten.New(args[0], logger, cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize flatten engine", zap.Error(err))
		}

		if cmd.Flags().Changed("root") {
			engine.SetRoot(rootNodeID)
		}

		stats, err := flatten.Run(ctx, logger, engine, args[1])
		if err != nil {
			os.Exit(1)
		}

		fmt.Println(internal.FormatSummary(args[0], args[1], stats))
	},
}

func init() {
	flattenCmd.Flags().IntVar(&rootNodeID, "root", 0, "Id of the node the traversal starts from")
}
