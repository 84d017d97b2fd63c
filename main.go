package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reusedev/draw-cli/config"
	"github.com/reusedev/draw-cli/internal/consts"
	"github.com/reusedev/draw-cli/internal/modules/ai/image"
	"github.com/reusedev/draw-cli/internal/modules/logs"
	"github.com/reusedev/draw-cli/internal/modules/pipeline"
	"github.com/reusedev/draw-cli/internal/modules/prompt"
	"github.com/reusedev/draw-cli/internal/modules/storage"
	"github.com/reusedev/draw-cli/internal/modules/storage/ali"
	"github.com/reusedev/draw-cli/internal/modules/storage/local"
	"github.com/reusedev/draw-cli/internal/modules/storage/s3"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := parseArgs(argv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg, err := config.Load(args.configPath, args.envFile)
	if err != nil {
		logs.Logger.Err(err).Str("config", args.configPath).Msg("load config failed")
		return 1
	}
	config.GConfig = cfg
	logs.InitLogger(config.GConfig)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := newStorage(ctx, config.GConfig)
	if err != nil {
		logs.Logger.Err(err).Str("supplier", config.GConfig.StorageSupplier).Msg("init storage failed")
		return 1
	}
	prompts, err := prompt.Resolve(args.prompt, args.bulk)
	if err != nil {
		logs.Logger.Err(err).Str("file", args.prompt).Msg("read prompts failed")
		return 1
	}

	opts := pipeline.Options{
		Model:       args.model,
		Size:        args.size,
		Quality:     args.quality,
		NameFormat:  args.nameFormat,
		Batch:       args.batch,
		Rounds:      args.rounds,
		Enhancement: !args.noEnhancement,
		AllURLs:     args.allURLs,
		Show:        !args.noShow,
		URLExpires:  config.GConfig.URLExpiry(),
	}
	if err = opts.Verify(); err != nil {
		logs.Logger.Err(err).Msg("invalid options")
		return 2
	}
	requester := image.NewRequester(config.GConfig.OpenAI.BaseURL, config.GConfig.OpenAI.APIKey, args.timeout)
	p := pipeline.New(requester, store, opts)
	if args.filename != "" && !args.noSave {
		p.SetSaver(&local.Saver{Filename: args.filename})
	}

	results, err := p.Run(ctx, prompts)
	logs.Logger.Info().Int("prompts", len(prompts)).Int("published", len(results)).Msg("run finished")
	if err != nil {
		logs.Logger.Err(err).Msg("run aborted")
		return 1
	}
	return 0
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch consts.StorageSupplier(cfg.StorageSupplier) {
	case consts.AliOss:
		return ali.NewOSS(cfg.Storage)
	default:
		return s3.New(ctx, cfg.Storage)
	}
}
