// Package render — image packing.
// Places a record's variable-size images into fixed-width rows. Image sizes
// are remote-controlled content, so the packer bounds both minimum legibility
// and maximum page overflow deterministically: a legibility floor that always
// wins, at most two images per row, and explicit overflow marking instead of
// silent shrinking.
package render

const mmPerInch = 25.4

// PackOptions holds the geometry constants, all in millimetres except DPI.
type PackOptions struct {
	// ContentWidth is the usable width between the page margins.
	ContentWidth float64
	// MinWidth is the legibility floor. No image is ever rendered narrower,
	// even when that overflows the content width.
	MinWidth float64
	// ColGap separates images within a row.
	ColGap float64
	// AssumedDPI converts pixels to millimetres for multi-image rows.
	AssumedDPI float64
	// NativeDPI sizes the single full-width placement mode. Used when the
	// image carries no density metadata, which the stdlib decoders never
	// surface, so in practice always.
	NativeDPI float64
}

// SourceImage is an image to be packed, with its natural pixel size.
type SourceImage struct {
	Path     string
	PxWidth  int
	PxHeight int
}

// PlacedImage is an image with its final rendered size.
type PlacedImage struct {
	Path   string
	Width  float64
	Height float64
}

// Row is one horizontal run of images.
type Row struct {
	Images []PlacedImage
	// Height is the tallest image in the row.
	Height float64
	// Overflow marks a row whose images at the legibility floor exceed the
	// content width. Such rows are rendered anyway.
	Overflow bool
}

// Width returns the row's total width including inter-image gaps.
func (r Row) Width(colGap float64) float64 {
	var w float64
	for i, img := range r.Images {
		if i > 0 {
			w += colGap
		}
		w += img.Width
	}
	return w
}

// PackRows lays out images into rows:
//   - a single image takes nearly the full content width,
//   - two images are each capped near half width,
//   - three or more go two per row, with a uniform shrink applied beyond four
//     images, never below the legibility floor.
func PackRows(images []SourceImage, opt PackOptions) []Row {
	if len(images) == 0 {
		return nil
	}

	placed := make([]PlacedImage, 0, len(images))
	singleMode := len(images) == 1
	for _, src := range images {
		placed = append(placed, sizeImage(src, opt, singleMode))
	}

	if singleMode {
		return buildRows(placed, 1, opt)
	}

	// Cap at half width, floor permitting.
	halfWidth := opt.ContentWidth * 0.48
	for i := range placed {
		if placed[i].Width > halfWidth {
			scaleTo(&placed[i], maxf(halfWidth, opt.MinWidth))
		}
	}

	// Beyond four images, shrink uniformly until the widest row fits, but
	// stop at the floor: an unreadable image is worse than an overflowing row.
	if len(placed) > 4 {
		shrinkUniform(placed, opt)
	}

	return buildRows(placed, 2, opt)
}

// sizeImage converts the natural pixel size to millimetres and raises it to
// the legibility floor when needed.
func sizeImage(src SourceImage, opt PackOptions, singleMode bool) PlacedImage {
	dpi := opt.AssumedDPI
	if singleMode {
		dpi = opt.NativeDPI
	}
	img := PlacedImage{
		Path:   src.Path,
		Width:  float64(src.PxWidth) / dpi * mmPerInch,
		Height: float64(src.PxHeight) / dpi * mmPerInch,
	}
	if img.Width < opt.MinWidth {
		scaleTo(&img, opt.MinWidth)
	}
	if singleMode {
		if full := opt.ContentWidth * 0.95; img.Width > full {
			scaleTo(&img, maxf(full, opt.MinWidth))
		}
	}
	return img
}

// shrinkUniform applies one shrink factor to every image so each two-image
// row fits the content width (the gap between images does not shrink),
// clamped at the legibility floor.
func shrinkUniform(placed []PlacedImage, opt PackOptions) {
	scale := 1.0
	for i := 0; i < len(placed); i += 2 {
		if i+1 < len(placed) {
			pair := placed[i].Width + placed[i+1].Width
			if avail := opt.ContentWidth - opt.ColGap; pair > avail {
				scale = minf(scale, avail/pair)
			}
		} else if placed[i].Width > opt.ContentWidth {
			scale = minf(scale, opt.ContentWidth/placed[i].Width)
		}
	}
	if scale >= 1 {
		return
	}

	narrowest := placed[0].Width
	for _, img := range placed {
		if img.Width < narrowest {
			narrowest = img.Width
		}
	}
	if narrowest*scale < opt.MinWidth {
		scale = opt.MinWidth / narrowest
	}
	if scale >= 1 {
		return
	}
	for i := range placed {
		placed[i].Width *= scale
		placed[i].Height *= scale
	}
}

// buildRows chunks the placed images in order, perRow at a time.
func buildRows(placed []PlacedImage, perRow int, opt PackOptions) []Row {
	var rows []Row
	for start := 0; start < len(placed); start += perRow {
		end := start + perRow
		if end > len(placed) {
			end = len(placed)
		}
		row := Row{Images: placed[start:end]}
		for _, img := range row.Images {
			row.Height = maxf(row.Height, img.Height)
		}
		row.Overflow = row.Width(opt.ColGap) > opt.ContentWidth+0.01
		rows = append(rows, row)
	}
	return rows
}

// scaleTo resizes an image to the given width, preserving aspect ratio.
func scaleTo(img *PlacedImage, width float64) {
	scale := width / img.Width
	img.Width = width
	img.Height *= scale
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
