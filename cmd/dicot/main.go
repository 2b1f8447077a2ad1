package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "dicot",
		Short: "dicot is a tool to grow binary classification trees",
		Long:  `A tool to grow binary classification decision trees from your data, test them, and use them to classify new samples`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.setUpLogging()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress to STDERR")
	rootCmd.AddCommand(versionCmd(), growCmd(config), classifyCmd(config), testCmd(config), setCmd(config))
	return rootCmd
}
