package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/battlesnakeio/nol/cmd/nol/commands/server"
	"github.com/battlesnakeio/nol/config"
	"github.com/battlesnakeio/nol/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "nol",
	Short:   "nol is a battlesnake that follows its nose",
	Version: version.Version,
	Run: func(c *cobra.Command, args []string) {
		server.RootCmd.PreRun(c, args)
		server.RootCmd.Run(c, args)
	},
}

var (
	apiAddr string
	gameID  string
	debug   bool
)

func defaultAPIAddr() string {
	if strings.HasPrefix(config.ListenAddr, ":") {
		return "http://localhost" + config.ListenAddr
	}
	return "http://" + config.ListenAddr
}

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api-addr", defaultAPIAddr(), "address of the snake api")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.Flags().AddFlagSet(server.RootCmd.Flags())

	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(server.RootCmd)

	cobra.OnInitialize(func() {
		config.SetupLogging(debug)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
