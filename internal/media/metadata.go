// Package media supplies the engine's external collaborators for the demo:
// asset metadata probed from an HLS playlist, and a thumbnail generator
// backed by an on-disk cache.
package media

import (
	"fmt"
	"os"

	"github.com/grafov/m3u8"

	"github.com/ingyamilmolinar/trimline/core/mediatime"
)

// Transform is the thumbnail orientation for the asset's video track.
type Transform int

const (
	TransformIdentity Transform = iota
	TransformRotate90
	TransformRotate180
	TransformRotate270
)

// AssetInfo is the metadata the engine needs from an attached asset.
type AssetInfo struct {
	ID        string
	Duration  mediatime.Time
	Aspect    float64
	Transform Transform
}

// DisplayAspect returns the aspect ratio after applying the track
// transform: a quarter rotation swaps width and height.
func (a AssetInfo) DisplayAspect() float64 {
	if a.Transform == TransformRotate90 || a.Transform == TransformRotate270 {
		if a.Aspect == 0 {
			return 0
		}
		return 1 / a.Aspect
	}
	return a.Aspect
}

// ProbePlaylist reads a media (variant) HLS playlist and sums its segment
// durations into the asset duration. Master playlists carry no timing and
// are rejected.
func ProbePlaylist(path string) (AssetInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return AssetInfo{}, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	p, listType, err := m3u8.DecodeFrom(f, true)
	if err != nil {
		return AssetInfo{}, fmt.Errorf("parse playlist %s: %w", path, err)
	}
	if listType != m3u8.MEDIA {
		return AssetInfo{}, fmt.Errorf("playlist %s is not a media playlist", path)
	}
	mp := p.(*m3u8.MediaPlaylist)

	total := mediatime.Zero
	for _, seg := range mp.Segments {
		if seg == nil {
			continue
		}
		total = total.Add(mediatime.FromSeconds(seg.Duration))
	}
	return AssetInfo{
		ID:       path,
		Duration: total,
		Aspect:   16.0 / 9.0,
	}, nil
}
