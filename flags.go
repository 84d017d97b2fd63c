package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/reusedev/draw-cli/internal/consts"
)

type cliArgs struct {
	prompt        string
	model         string
	size          string
	filename      string
	nameFormat    string
	batch         int
	rounds        int
	quality       string
	noEnhancement bool
	noShow        bool
	noSave        bool
	bulk          bool
	allURLs       bool
	timeout       time.Duration
	configPath    string
	envFile       string
}

// parseArgs accepts flags before and after the positional prompt, each under
// a short and a long name.
func parseArgs(argv []string, output io.Writer) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet("draw-cli", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(output, "Generate images from a prompt, upload them to object storage and print signed URLs.")
		_, _ = fmt.Fprintln(output, "\nUsage: draw-cli [flags] prompt")
		fs.PrintDefaults()
	}

	stringVar := func(p *string, short, long, value, usage string) {
		fs.StringVar(p, short, value, usage)
		fs.StringVar(p, long, value, usage)
	}
	intVar := func(p *int, short, long string, value int, usage string) {
		fs.IntVar(p, short, value, usage)
		fs.IntVar(p, long, value, usage)
	}
	boolVar := func(p *bool, short, long, usage string) {
		fs.BoolVar(p, short, false, usage)
		fs.BoolVar(p, long, false, usage)
	}

	stringVar(&a.model, "m", "model", consts.DefaultModel, "The model to use for generating the image.")
	stringVar(&a.size, "s", "size", consts.DefaultSize, "The size of the generated image.")
	stringVar(&a.filename, "f", "filename", "", "Also save images locally under this file name.")
	stringVar(&a.nameFormat, "A", "auto-name-format", consts.DefaultNameFormat, "Storage key template.")
	intVar(&a.batch, "n", "batch", 1, "The number of images to generate per request.")
	intVar(&a.rounds, "r", "rounds", 1, "The number of times to run generations (rounds * batch).")
	stringVar(&a.quality, "q", "quality", consts.DefaultQuality, "The quality of the generated image.")
	boolVar(&a.noEnhancement, "E", "no-enhancement", "Do not enhance the prompt.")
	boolVar(&a.noShow, "S", "no-show", "Do not report decoded image details.")
	boolVar(&a.noSave, "V", "no-save", "Do not save the image locally, even with --filename.")
	boolVar(&a.bulk, "B", "bulk", "Process prompts from file, one per line.")
	boolVar(&a.allURLs, "a", "all-urls", "Publish every image of a round, not only the first.")
	fs.DurationVar(&a.timeout, "timeout", consts.DefaultRequestTimeout, "Timeout of a single generation request.")
	fs.StringVar(&a.configPath, "config", "config.yml", "Optional config file path.")
	fs.StringVar(&a.envFile, "env-file", ".env", "Optional dotenv file, overrides the environment.")

	var positional []string
	for {
		if err := fs.Parse(argv); err != nil {
			return a, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		argv = fs.Args()[1:]
	}

	switch {
	case len(positional) == 0:
		fs.Usage()
		return a, errors.New("prompt is required")
	case len(positional) > 1:
		return a, fmt.Errorf("expected one prompt, got %d arguments", len(positional))
	case a.batch < 1:
		return a, fmt.Errorf("batch must be >= 1, got %d", a.batch)
	case a.rounds < 1:
		return a, fmt.Errorf("rounds must be >= 1, got %d", a.rounds)
	}
	a.prompt = positional[0]
	return a, nil
}
