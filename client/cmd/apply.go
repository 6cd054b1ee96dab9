package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/server"
)

var applyFile string

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:          "apply",
	Short:        "apply interface records in a single transaction",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		b, err := os.ReadFile(applyFile)
		if err != nil {
			return err
		}
		// validate before sending
		if _, err := config.ParseInterfaces(b); err != nil {
			return fmt.Errorf("%s: %w", applyFile, err)
		}
		rsp := &server.ApplyResponse{}
		if err := newAPIClient(addr).do(ctx, http.MethodPost, "/interfaces", b, rsp); err != nil {
			return err
		}
		fmt.Printf("applied %d interface(s)\n", rsp.Interfaces)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "YAML file with the interface records")
	_ = applyCmd.MarkFlagRequired("file")
}
