package replay

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/cmd/util"
	"github.com/mpapenbr/racereplay/pkg/config"
	"github.com/mpapenbr/racereplay/pkg/leaderboard"
	"github.com/mpapenbr/racereplay/pkg/loader"
	"github.com/mpapenbr/racereplay/pkg/model"
	"github.com/mpapenbr/racereplay/pkg/playback"
	"github.com/mpapenbr/racereplay/pkg/processing"
	"github.com/mpapenbr/racereplay/pkg/publish"
	"github.com/mpapenbr/racereplay/pkg/utils"
	"github.com/mpapenbr/racereplay/pkg/utils/cache"
	"github.com/mpapenbr/racereplay/pkg/utils/cache/loadercache"
)

var cmdConfig config.Config

//nolint:funlen // by design
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "plays a race dataset and publishes a snapshot per frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startReplay(cmd, &cmdConfig)
		},
	}
	cmd.Flags().StringVarP(&cmdConfig.File, "file", "f", "", "dataset file (json, yaml)")
	cmd.Flags().StringVar(&cmdConfig.JSONPath, "json-path", "",
		"JSONPath of the dataset within the file")
	cmd.Flags().Float64Var(&cmdConfig.Speed, "speed", playback.DefaultSpeed,
		"session seconds per second")
	cmd.Flags().IntVar(&cmdConfig.FPS, "fps", playback.DefaultFPS, "frames per second")
	cmd.Flags().Float64Var(&cmdConfig.From, "from", 0, "start at this session time")
	cmd.Flags().Float64Var(&cmdConfig.To, "to", 0,
		"stop at this session time (0 means: end of dataset)")
	cmd.Flags().StringVar(&config.NatsURL, "nats-url", "",
		"publish snapshots to this NATS server")
	cmd.Flags().StringVar(&config.WaitForServices,
		"wait-for-services",
		"15s",
		"Duration to wait for the NATS server to be ready")
	cmd.Flags().StringVar(&cmdConfig.Subject, "subject", "",
		"NATS subject (default racereplay.<session>.snapshot)")
	cmd.Flags().BoolVar(&cmdConfig.Watch, "watch", false,
		"reload the dataset when the file changes")
	cmd.Flags().StringVarP(&cmdConfig.Output, "output", "o", "json",
		"output format if no NATS server is used (table, json)")
	cmd.Flags().BoolVar(&cmdConfig.Colors, "colors", false, "use terminal colors for sectors")
	cmd.Flags().StringVar(&cmdConfig.LapMode, "lap-mode", "distance",
		"source of the lap number (distance, sample)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

//nolint:funlen // by design
func startReplay(cmd *cobra.Command, cfg *config.Config) error {
	session := uuid.NewString()
	logger := log.GetFromContext(cmd.Context()).Named("replay")
	logger.Info("Starting replay",
		log.String("session", session),
		log.String("file", cfg.File),
		log.Float64("speed", cfg.Speed),
		log.Int("fps", cfg.FPS))

	datasets := newDatasetCache(cfg, logger)
	ds, err := datasets.Get(cmd.Context(), cfg.File)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", util.DatasetSummary(ds)...)
	reducerOpts, err := util.ReducerOptions(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, closer, err := newPublisher(ctx, cmd, cfg, session, logger)
	if err != nil {
		return err
	}
	defer closer()

	proc := processing.NewProcessor(
		processing.WithDataset(ds),
		processing.WithReducerOptions(reducerOpts...))
	player := playback.NewPlayer(proc,
		playback.WithFPS(cfg.FPS),
		playback.WithSpeed(cfg.Speed),
		playback.WithRange(cfg.From, cfg.To),
		playback.WithLogger(logger.Named("playback")))

	newController(player, cfg.From, logger.Named("control")).start(ctx)

	if cfg.Watch {
		w := &watcher{
			file:   cfg.File,
			reload: func() error { return reloadDataset(ctx, cfg, datasets, player, logger) },
			log:    logger.Named("watch"),
		}
		if err := w.start(ctx); err != nil {
			return err
		}
	}

	task := newReplayTask(session, player, pub, logger)
	if err := task.run(ctx); err != nil {
		return err
	}
	logger.Info("Replay finished", log.String("session", session))
	return nil
}

func loaderOptions(cfg *config.Config, logger *log.Logger) []loader.Option {
	ret := []loader.Option{loader.WithLogger(logger.Named("loader"))}
	if cfg.JSONPath != "" {
		ret = append(ret, loader.WithJSONPath(cfg.JSONPath))
	}
	return ret
}

// newDatasetCache keeps loaded datasets until they are invalidated
//
//nolint:lll // readability
func newDatasetCache(cfg *config.Config, logger *log.Logger) cache.Cache[string, model.RaceDataset] {
	return loadercache.New(
		loadercache.WithLoader[string, model.RaceDataset](
			func(_ context.Context, file string) (*model.RaceDataset, error) {
				return loader.LoadFile(file, loaderOptions(cfg, logger)...)
			}),
		loadercache.WithExpiration[string, model.RaceDataset](0),
		loadercache.WithLogger[string, model.RaceDataset](logger.Named("cache")))
}

//nolint:whitespace // editor/linter issue
func reloadDataset(
	ctx context.Context,
	cfg *config.Config,
	datasets cache.Cache[string, model.RaceDataset],
	player *playback.Player,
	logger *log.Logger,
) error {
	ds, err := datasets.Reload(ctx, cfg.File)
	if err != nil {
		return err
	}
	if violations := loader.Check(ds); len(violations) > 0 {
		logger.Warn("reloaded dataset has violations",
			log.Int("count", len(violations)),
			log.String("first", violations[0].String()))
	}
	player.ReplaceDataset(ds)
	return nil
}

//nolint:whitespace // editor/linter issue
func newPublisher(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	session string,
	logger *log.Logger,
) (pub publish.Publisher, closer func(), err error) {
	if config.NatsURL == "" {
		switch cfg.Output {
		case "table":
			pub = publish.NewTablePublisher(cmd.OutOrStdout(),
				leaderboard.NewRenderer(leaderboard.WithColors(cfg.Colors)))
		case "json":
			pub = publish.NewJSONPublisher(cmd.OutOrStdout())
		default:
			return nil, nil, fmt.Errorf("invalid output format %q (table, json)", cfg.Output)
		}
		return pub, func() { _ = pub.Close() }, nil
	}
	addr, err := utils.ExtractFromNatsURL(config.NatsURL)
	if err != nil {
		return nil, nil, err
	}
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		logger.Warn("Invalid duration value. Setting default 15s", log.ErrorField(err))
		timeout = 15 * time.Second
	}
	if err = utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return nil, nil, fmt.Errorf("nats server not ready: %w", err)
	}
	conn, err := publish.Connect(config.NatsURL, fmt.Sprintf("racereplay-%s", session))
	if err != nil {
		return nil, nil, err
	}
	opts := []publish.NatsOption{publish.WithLogger(logger.Named("nats"))}
	if cfg.Subject != "" {
		opts = append(opts, publish.WithSubject(cfg.Subject))
	}
	natsPub, err := publish.NewNatsPublisher(conn, session, opts...)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return natsPub, func() {
		if err := natsPub.Close(); err != nil {
			logger.Warn("error closing publisher", log.ErrorField(err))
		}
		conn.Close()
	}, nil
}
