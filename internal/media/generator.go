package media

import (
	"image"
	"image/color"
	"math"

	"github.com/ingyamilmolinar/trimline/core/mediatime"
	"github.com/ingyamilmolinar/trimline/core/thumbs"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// SyntheticGenerator is the demo's thumbnail generator: it synthesizes a
// frame per sample time instead of decoding video, consulting the disk
// cache first. Each batch runs on its own goroutine and reports through the
// returned channel; superseded batches simply run to completion and have
// their results dropped by the scheduler's generation check.
type SyntheticGenerator struct {
	asset  AssetInfo
	cache  *ThumbCache // optional
	logger *game_log.Logger
}

func NewSyntheticGenerator(asset AssetInfo, cache *ThumbCache, logger *game_log.Logger) *SyntheticGenerator {
	return &SyntheticGenerator{asset: asset, cache: cache, logger: logger}
}

func (g *SyntheticGenerator) Generate(times []mediatime.Time, size image.Point) <-chan thumbs.Result {
	out := make(chan thumbs.Result, len(times))
	go func() {
		defer close(out)
		hits := 0
		for i, t := range times {
			key := Key(g.asset.ID, t.Value, t.Scale, size)
			if g.cache != nil {
				if img := g.cache.Get(key); img != nil {
					hits++
					out <- thumbs.Result{Index: i, Image: img}
					continue
				}
			}
			img := g.render(t, size)
			if g.cache != nil {
				g.cache.Put(key, img)
			}
			out <- thumbs.Result{Index: i, Image: img}
		}
		g.logger.Debugf("[MEDIA] batch of %d done, %d cache hits", len(times), hits)
	}()
	return out
}

// render paints a hue sweep keyed to the sample time, with a vertical bar
// marking the position inside the asset, so scrubbing visibly moves across
// distinct frames.
func (g *SyntheticGenerator) render(t mediatime.Time, size image.Point) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	dur := g.asset.Duration.Seconds()
	frac := 0.0
	if dur > 0 {
		frac = t.Seconds() / dur
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	base := hue(frac)
	for y := 0; y < size.Y; y++ {
		shade := 1 - 0.5*float64(y)/float64(size.Y)
		row := color.RGBA{
			R: uint8(float64(base.R) * shade),
			G: uint8(float64(base.G) * shade),
			B: uint8(float64(base.B) * shade),
			A: 255,
		}
		for x := 0; x < size.X; x++ {
			img.SetRGBA(x, y, row)
		}
	}
	barX := int(frac * float64(size.X-1))
	for y := 0; y < size.Y; y++ {
		img.SetRGBA(barX, y, color.RGBA{255, 255, 255, 255})
	}
	return img
}

func hue(frac float64) color.RGBA {
	rad := 2 * math.Pi * frac
	return color.RGBA{
		R: uint8(128 + 127*math.Sin(rad)),
		G: uint8(128 + 127*math.Sin(rad+2*math.Pi/3)),
		B: uint8(128 + 127*math.Sin(rad+4*math.Pi/3)),
		A: 255,
	}
}
