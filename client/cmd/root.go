package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feactl",
	Short: "inspect and configure the interfaces of a fea-server",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var addr string
var format string

func init() {
	rootCmd.PersistentFlags().StringVarP(&addr, "address", "a", "localhost:56090", "fea-server HTTP address")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "", "", "print format, '', 'table', 'yaml' or 'json'")
}
