package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore"
	"github.com/sdcio/fea-server/pkg/datastore/ops"
	"github.com/sdcio/fea-server/pkg/datastore/target"
	"github.com/sdcio/fea-server/pkg/server"
)

var view string
var backend string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "show state",
}

// showInterfacesCmd represents the show interfaces command
var showInterfacesCmd = &cobra.Command{
	Use:          "interfaces",
	Short:        "show the interfaces of a configuration tree",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		var ifs []*config.InterfaceConfig
		var err error
		if backend != "" {
			ifs, err = pullLocal(ctx, backend)
		} else {
			err = newAPIClient(addr).do(ctx, http.MethodGet, "/interfaces/"+view, nil, &ifs)
		}
		if err != nil {
			return err
		}
		return printInterfaces(os.Stdout, ifs)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showInterfacesCmd)
	showInterfacesCmd.Flags().StringVarP(&view, "view", "", server.ViewDeclared, "tree to show: declared, live, system or original")
	showInterfacesCmd.Flags().StringVarP(&backend, "backend", "", "", "pull the interfaces directly from a local backend (dummy or netlink) instead of asking the server")
}

// pullLocal starts a datastore on the named backend and returns the pulled
// interfaces.
func pullLocal(ctx context.Context, backendType string) ([]*config.InterfaceConfig, error) {
	cfg, err := config.New("")
	if err != nil {
		return nil, err
	}
	cfg.Backend = &config.BackendConfig{Type: backendType}
	switch backendType {
	case config.BackendTypeDummy:
		cfg.Backend.DummyOptions = &config.BackendDummyOptions{}
	case config.BackendTypeNetlink:
		// read only, no notifications needed
		cfg.Backend.NetlinkOptions = &config.BackendNetlinkOptions{DisableObserver: true}
	default:
		return nil, fmt.Errorf("unknown backend %q", backendType)
	}
	b, err := target.New(ctx, cfg.Backend)
	if err != nil {
		return nil, err
	}
	d, err := datastore.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := d.RegisterBackend(ctx, b, false); err != nil {
		return nil, err
	}
	if err := d.Start(ctx); err != nil {
		return nil, err
	}
	defer d.Stop(ctx)
	return ops.ToInterfaceConfig(d.SystemConfig()), nil
}

func printInterfaces(w io.Writer, ifs []*config.InterfaceConfig) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(ifs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	case "yaml":
		b, err := yaml.Marshal(ifs)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(b))
	default:
		printInterfacesTable(w, ifs)
	}
	return nil
}

func printInterfacesTable(w io.Writer, ifs []*config.InterfaceConfig) {
	tableData := make([][]string, 0, len(ifs))
	for _, ic := range ifs {
		tableData = append(tableData, toTableData(ic)...)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Interface", "Enabled", "MTU", "MAC", "Vif", "VLAN", "Address(es)"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(tableData)
	table.Render()
}

// toTableData returns one row per vif, the interface columns are only set
// on the first one.
func toTableData(ic *config.InterfaceConfig) [][]string {
	ifCols := []string{
		ic.Name,
		strconv.FormatBool(ic.IsEnabled()),
		strconv.FormatUint(uint64(ic.MTU), 10),
		ic.MAC,
	}
	if len(ic.Vifs) == 0 {
		return [][]string{append(ifCols, "", "", "")}
	}
	rows := make([][]string, 0, len(ic.Vifs))
	for i, vc := range ic.Vifs {
		if i > 0 {
			ifCols = []string{"", "", "", ""}
		}
		vlan := ""
		if vc.VlanID != nil {
			vlan = strconv.FormatUint(uint64(*vc.VlanID), 10)
		}
		addrs := make([]string, 0, len(vc.Addresses))
		for _, ac := range vc.Addresses {
			a := ac.Prefix
			if !ac.IsEnabled() {
				a += " (disabled)"
			}
			addrs = append(addrs, a)
		}
		name := vc.Name
		if !vc.IsEnabled() {
			name += " (disabled)"
		}
		row := append(append([]string{}, ifCols...), name, vlan, strings.Join(addrs, "\n"))
		rows = append(rows, row)
	}
	return rows
}
