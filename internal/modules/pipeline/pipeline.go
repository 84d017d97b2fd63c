package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/reusedev/draw-cli/internal/consts"
	"github.com/reusedev/draw-cli/internal/modules/ai/image"
	"github.com/reusedev/draw-cli/internal/modules/logs"
	"github.com/reusedev/draw-cli/internal/modules/naming"
	"github.com/reusedev/draw-cli/internal/modules/prompt"
	"github.com/reusedev/draw-cli/internal/modules/storage"
	"github.com/reusedev/draw-cli/internal/modules/storage/local"
)

type Generator interface {
	Generate(ctx context.Context, request *image.GenerationRequest) (*image.GenerationResult, error)
}

type Options struct {
	Model      string
	Size       string
	Quality    string
	NameFormat string
	Batch      int
	Rounds     int
	// Enhancement false prepends consts.NoEnhancementPrefix.
	Enhancement bool
	// AllURLs publishes every image of a round instead of stopping at the
	// first successful upload.
	AllURLs    bool
	Show       bool
	URLExpires time.Duration
}

func (o Options) Verify() error {
	if o.Batch < 1 {
		return fmt.Errorf("batch must be >= 1, got %d", o.Batch)
	}
	if o.Rounds < 1 {
		return fmt.Errorf("rounds must be >= 1, got %d", o.Rounds)
	}
	if o.URLExpires <= 0 {
		return fmt.Errorf("url expiry must be positive, got %s", o.URLExpires)
	}
	return nil
}

// Result is one published image.
type Result struct {
	Prompt  string
	Round   int
	N       int
	Key     string
	URL     string
	Created int64
}

type Pipeline struct {
	generator Generator
	storage   storage.Storage
	opts      Options
	saver     *local.Saver
	out       io.Writer
	newUUID   func() string
}

func New(generator Generator, store storage.Storage, opts Options) *Pipeline {
	return &Pipeline{
		generator: generator,
		storage:   store,
		opts:      opts,
		out:       os.Stdout,
		newUUID:   uuid.NewString,
	}
}

// SetSaver enables local copies of every decoded image.
func (p *Pipeline) SetSaver(saver *local.Saver) *Pipeline {
	p.saver = saver
	return p
}

// SetOutput sets where signed URLs are printed, one per line.
func (p *Pipeline) SetOutput(w io.Writer) *Pipeline {
	p.out = w
	return p
}

// Run processes every prompt for the configured number of rounds, one call at
// a time. Per-image failures are logged and skipped; a presign failure or a
// canceled context ends the run and is returned with the results so far.
func (p *Pipeline) Run(ctx context.Context, prompts []string) ([]Result, error) {
	var ret []Result
	for _, pr := range prompts {
		for round := 0; round < p.opts.Rounds; round++ {
			if err := ctx.Err(); err != nil {
				return ret, err
			}
			results, err := p.round(ctx, pr, round)
			ret = append(ret, results...)
			if err != nil {
				return ret, err
			}
		}
	}
	return ret, nil
}

func (p *Pipeline) round(ctx context.Context, original string, round int) ([]Result, error) {
	request := &image.GenerationRequest{
		Prompt:         prompt.Apply(original, p.opts.Enhancement),
		ResponseFormat: consts.ResponseFormat,
		Model:          p.opts.Model,
		Size:           p.opts.Size,
		N:              p.opts.Batch,
		Quality:        p.opts.Quality,
	}
	log := logs.Logger.With().
		Str("prompt", prompt.Short(original, consts.ShortPromptLen)).
		Int("round", round).
		Logger()

	response, err := p.generator.Generate(ctx, request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Err(err).Msg("image generation failed")
		return nil, nil
	}
	if response.Empty() {
		log.Warn().Err(image.ErrEmptyResult).Msg("No image returned")
		return nil, nil
	}

	var ret []Result
	for n, payload := range response.Data {
		ilog := log.With().Int("n", n).Logger()
		data, err := payload.Decode()
		if err != nil {
			if errors.Is(err, image.ErrEmptyPayload) {
				ilog.Warn().Msg("No image returned")
			} else {
				ilog.Err(err).Msg("decode image failed")
			}
			continue
		}
		p.inspect(ilog, data)
		p.save(ilog, data, n)

		key, err := naming.Key(p.opts.NameFormat, naming.Fields{
			ShortPrompt: prompt.Short(original, consts.ShortPromptLen),
			Prompt:      original,
			N:           n,
			Round:       round,
			Model:       p.opts.Model,
			Size:        p.opts.Size,
			Quality:     p.opts.Quality,
			Created:     response.Created,
			UUID:        p.newUUID(),
		})
		if err != nil {
			ilog.Err(err).Msg("render storage key failed")
			continue
		}
		ilog = ilog.With().Str("key", key).Logger()

		if err = p.storage.PutObject(ctx, key, data, consts.ImageContentType); err != nil {
			if ctx.Err() != nil {
				return ret, ctx.Err()
			}
			ilog.Err(err).Str("reason", storage.Reason(err)).Msg("Failed to upload image")
			continue
		}
		url, err := p.storage.PresignURL(ctx, key, p.opts.URLExpires)
		if err != nil {
			ilog.Err(err).Msg("presign url failed")
			return ret, fmt.Errorf("presign %s: %w", key, err)
		}
		ilog.Info().Msg("image published")
		_, _ = fmt.Fprintln(p.out, url)
		ret = append(ret, Result{
			Prompt:  original,
			Round:   round,
			N:       n,
			Key:     key,
			URL:     url,
			Created: response.Created,
		})
		if !p.opts.AllURLs {
			return ret, nil
		}
	}
	return ret, nil
}
