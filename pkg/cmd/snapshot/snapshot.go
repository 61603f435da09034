package snapshot

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/cmd/util"
	"github.com/mpapenbr/racereplay/pkg/config"
	"github.com/mpapenbr/racereplay/pkg/leaderboard"
	"github.com/mpapenbr/racereplay/pkg/loader"
	"github.com/mpapenbr/racereplay/pkg/processing"
	"github.com/mpapenbr/racereplay/pkg/publish"
)

var cmdConfig config.Config

func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "prints the leaderboard at a given session time",
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := newPublisher(cmd, &cmdConfig)
			if err != nil {
				return err
			}
			return printSnapshot(cmd.Context(), &cmdConfig, pub)
		},
	}
	cmd.Flags().StringVarP(&cmdConfig.File, "file", "f", "", "dataset file (json, yaml)")
	cmd.Flags().StringVar(&cmdConfig.JSONPath, "json-path", "",
		"JSONPath of the dataset within the file")
	cmd.Flags().Float64VarP(&cmdConfig.Time, "time", "t", 0, "session time in seconds")
	cmd.Flags().StringVarP(&cmdConfig.Output, "output", "o", "table", "output format (table, json)")
	cmd.Flags().BoolVar(&cmdConfig.Colors, "colors", false, "use terminal colors for sectors")
	cmd.Flags().StringVar(&cmdConfig.LapMode, "lap-mode", "distance",
		"source of the lap number (distance, sample)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPublisher(cmd *cobra.Command, cfg *config.Config) (publish.Publisher, error) {
	switch cfg.Output {
	case "table":
		return publish.NewTablePublisher(cmd.OutOrStdout(),
			leaderboard.NewRenderer(leaderboard.WithColors(cfg.Colors))), nil
	case "json":
		return publish.NewJSONPublisher(cmd.OutOrStdout()), nil
	default:
		return nil, fmt.Errorf("invalid output format %q (table, json)", cfg.Output)
	}
}

func printSnapshot(ctx context.Context, cfg *config.Config, pub publish.Publisher) error {
	logger := log.GetFromContext(ctx).Named("snapshot")
	opts := []loader.Option{loader.WithLogger(logger.Named("loader"))}
	if cfg.JSONPath != "" {
		opts = append(opts, loader.WithJSONPath(cfg.JSONPath))
	}
	ds, err := loader.LoadFile(cfg.File, opts...)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", util.DatasetSummary(ds)...)
	reducerOpts, err := util.ReducerOptions(cfg, logger)
	if err != nil {
		return err
	}
	proc := processing.NewProcessor(
		processing.WithDataset(ds),
		processing.WithReducerOptions(reducerOpts...))
	if err := pub.Publish(ctx, proc.Seek(cfg.Time)); err != nil {
		return err
	}
	return pub.Close()
}
