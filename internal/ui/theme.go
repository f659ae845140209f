package ui

import "image/color"

var (
	colBackground = color.RGBA{15, 15, 15, 255}
	colTrack      = color.RGBA{30, 30, 30, 255}
	colTilePend   = color.RGBA{45, 45, 45, 255}

	colDimOverlay = color.RGBA{0, 0, 0, 170}
	colHandle     = color.RGBA{250, 200, 40, 255}
	colHandleGrab = color.RGBA{255, 230, 120, 255}
	colChevron    = color.RGBA{20, 20, 20, 255}
	colSelBorder  = color.RGBA{250, 200, 40, 255}

	colProgress     = color.RGBA{240, 240, 240, 255}
	colProgressKnob = color.RGBA{255, 255, 255, 255}

	colZoomBorder = color.RGBA{80, 160, 255, 255}
)
