package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	timeout time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "treeflat [input] [output]",
	Short:            "treeflat - flatten serialized decision trees into conjunction strategies",
	TraverseChildren: true, // Prioritize subcommands
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'treeflat' is entered
			_ = cmd.Help()
			return
		}
		// Format: treeflat <input> <output> => behaves like the flatten subcommand
		flattenCmd.Run(flattenCmd, args)
	},
}

func Execute() error {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a .treeflat.yaml configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Timeout for a whole run")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(watchCmd)
}
