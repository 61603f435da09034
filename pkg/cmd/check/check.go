package check

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/cmd/util"
	"github.com/mpapenbr/racereplay/pkg/config"
	"github.com/mpapenbr/racereplay/pkg/loader"
)

var cmdConfig config.Config

func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "validates the preconditions of a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkDataset(cmd, &cmdConfig)
		},
	}
	cmd.Flags().StringVarP(&cmdConfig.File, "file", "f", "", "dataset file (json, yaml)")
	cmd.Flags().StringVar(&cmdConfig.JSONPath, "json-path", "",
		"JSONPath of the dataset within the file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func checkDataset(cmd *cobra.Command, cfg *config.Config) error {
	logger := log.GetFromContext(cmd.Context()).Named("check")
	opts := []loader.Option{loader.WithLogger(logger.Named("loader"))}
	if cfg.JSONPath != "" {
		opts = append(opts, loader.WithJSONPath(cfg.JSONPath))
	}
	ds, err := loader.LoadFile(cfg.File, opts...)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", util.DatasetSummary(ds)...)

	violations := loader.Check(ds)
	if len(violations) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d drivers)\n", cfg.File, len(ds.Drivers))
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Driver", "Index", "Kind", "Message"})
	t.AppendRows(lo.Map(violations, func(v loader.Violation, _ int) table.Row {
		return table.Row{v.DriverID, v.Index, v.Kind, v.Message}
	}))
	t.Render()
	return fmt.Errorf("%s: %d violations", cfg.File, len(violations))
}
