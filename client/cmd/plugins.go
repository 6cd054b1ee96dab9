package cmd

import (
	"context"
	"maps"
	"net/http"
	"os"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// showPluginsCmd represents the show plugins command
var showPluginsCmd = &cobra.Command{
	Use:          "plugins",
	Short:        "show the backend plugins and their status",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		status := map[string]string{}
		if err := newAPIClient(addr).do(ctx, http.MethodGet, "/plugins", nil, &status); err != nil {
			return err
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Plugin", "Status"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoFormatHeaders(false)
		for _, name := range slices.Sorted(maps.Keys(status)) {
			table.Append([]string{name, status[name]})
		}
		table.Render()
		return nil
	},
}

func init() {
	showCmd.AddCommand(showPluginsCmd)
}
