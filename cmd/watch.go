package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rulemint/treeflat/flatten"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input tree file> <output strategies file>",
	Short: "Re-flatten the tree whenever the input file changes",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println("usage: treeflat watch <input tree file> <output strategies file>")
			os.Exit(1)
		}

		engine, err := flatten.New(args[0], logger, cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize flatten engine", zap.Error(err))
		}

		if err := engine.StartWatching(args[1]); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		fmt.Printf("watching %s, press Ctrl-C to stop\n", args[0])

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		if err := engine.StopWatching(); err != nil {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}
