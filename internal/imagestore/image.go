package imagestore

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// bytes per pixel in the backing buffer
const pixelStride = 4

// Pixel is one RGBA pixel as it crosses the scripting boundary:
// four channels in [0,255], ordered (r, g, b, a).
type Pixel [4]uint8

// TraversalCallback receives one pixel per invocation during
// Traverse, with its channel values and 0-based coordinates.
type TraversalCallback func(r, g, b, a uint8, x, y int)

// Image is one raster owned by a Store.
//
// The buffer is row-major 8-bit RGBA; Pitch bytes separate the starts
// of consecutive rows. The cursor is transient: it is non-nil only
// while a traversal owning this image is in progress.
type Image struct {
	owner    *Store
	handle   int
	bitmap   *image.NRGBA
	w, h     int
	promoted bool
	cur      []uint8 // aliases bitmap.Pix at the visited pixel, nil outside traversal
}

// newImage clones src into an owned RGBA buffer. Sources whose native
// color model lacks an alpha channel are promoted and flagged.
func newImage(owner *Store, handle int, src image.Image) *Image {
	hasAlpha := false
	switch src.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bitmap := imaging.Clone(src)
	return &Image{
		owner:    owner,
		handle:   handle,
		bitmap:   bitmap,
		w:        bitmap.Rect.Dx(),
		h:        bitmap.Rect.Dy(),
		promoted: !hasAlpha,
	}
}

// Handle returns the handle the owning store assigned to this image.
func (img *Image) Handle() int { return img.handle }

// Owner returns the store this image belongs to.
func (img *Image) Owner() *Store { return img.owner }

// Dimensions returns the image width and height in pixels.
func (img *Image) Dimensions() (w, h int) { return img.w, img.h }

// Pitch returns the distance in bytes between the starts of
// consecutive rows. The buffer length is always Pitch() * height.
func (img *Image) Pitch() int { return img.bitmap.Stride }

// AlphaPromoted reports whether the source this image was decoded
// from had no alpha channel and was upgraded to RGBA on load.
func (img *Image) AlphaPromoted() bool { return img.promoted }

// Bitmap returns the backing raster. The buffer is shared with the
// store, not a copy; mutating it mutates the stored image.
func (img *Image) Bitmap() *image.NRGBA { return img.bitmap }

// Pixel returns the pixel at (x, y), or ErrCoordinateOutOfRange when
// x is outside [0,w) or y outside [0,h).
func (img *Image) Pixel(x, y int) (Pixel, error) {
	if x < 0 || x >= img.w || y < 0 || y >= img.h {
		return Pixel{}, fmt.Errorf("%w: (%d,%d) in %dx%d image", ErrCoordinateOutOfRange, x, y, img.w, img.h)
	}
	off := y*img.bitmap.Stride + x*pixelStride
	var p Pixel
	copy(p[:], img.bitmap.Pix[off:off+pixelStride])
	return p, nil
}

// traverse walks the buffer in row-major order, arming the owning
// store's active-traversal reference and this image's cursor before
// every callback. The deferred reset also runs when a script error
// unwinds the stack mid-traversal, so the store is never left
// pointing at a stale cursor.
func (img *Image) traverse(cb TraversalCallback) {
	st := img.owner
	defer func() {
		img.cur = nil
		st.traversing = nil
	}()

	for y := 0; y < img.h; y++ {
		row := y * img.bitmap.Stride
		for x := 0; x < img.w; x++ {
			off := row + x*pixelStride
			st.traversing = img
			img.cur = img.bitmap.Pix[off : off+pixelStride : off+pixelStride]
			cb(img.cur[0], img.cur[1], img.cur[2], img.cur[3], x, y)
		}
	}
}

// setCurrentPixel overwrites the pixel under the cursor. Repeated
// writes before the traversal advances simply overwrite in place, so
// the last write wins.
func (img *Image) setCurrentPixel(p Pixel) {
	copy(img.cur, p[:])
}
