package pipeline

import (
	"github.com/reusedev/draw-cli/tools"
	"github.com/rs/zerolog"
)

// inspect logs what a viewer would have shown.
func (p *Pipeline) inspect(log zerolog.Logger, data []byte) {
	if !p.opts.Show {
		return
	}
	info, err := tools.Inspect(data)
	if err != nil {
		log.Warn().Err(err).Msg("inspect image failed")
		return
	}
	log.Info().Str("format", info.Format).Int("width", info.Width).Int("height", info.Height).Msg("image received")
}

func (p *Pipeline) save(log zerolog.Logger, data []byte, n int) {
	if p.saver == nil {
		return
	}
	name, err := p.saver.Save(data, n, p.opts.Batch)
	if err != nil {
		log.Err(err).Msg("save image failed")
		return
	}
	log.Info().Str("file", name).Msg("Saved")
}
