// Package orient models the display orientation of an image in a
// viewer window: a number of quarter turns followed by an optional
// horizontal mirror. Rotation dialogs compose these one step at a
// time; Apply bakes the result into pixels when an oriented image has
// to leave the window (saving, exporting).
package orient

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
)

// Orientation is one of the eight ways a raster can sit in a window.
// The zero value is the identity.
type Orientation struct {
	Quarters int  // clockwise quarter turns, kept in [0,3]
	Mirror   bool // horizontal flip applied after the rotation
}

// Identity leaves the image untouched.
var Identity = Orientation{}

// normalize wraps the quarter count into [0,3].
func (o Orientation) normalize() Orientation {
	o.Quarters = ((o.Quarters % 4) + 4) % 4
	return o
}

// Compose returns the orientation equivalent to applying o first and
// then p. Orientations form the dihedral group of the square: a
// mirror in o reverses the sense of p's rotation.
func (o Orientation) Compose(p Orientation) Orientation {
	q := p.Quarters
	if o.Mirror {
		q = -q
	}
	return Orientation{
		Quarters: o.Quarters + q,
		Mirror:   o.Mirror != p.Mirror,
	}.normalize()
}

// Rotated returns o with one more clockwise quarter turn, the step a
// rotation dialog applies per click.
func (o Orientation) Rotated() Orientation {
	return o.Compose(Orientation{Quarters: 1})
}

// Mirrored returns o with an additional horizontal flip.
func (o Orientation) Mirrored() Orientation {
	return o.Compose(Orientation{Mirror: true})
}

// Apply renders src under o into a new buffer. The source is never
// modified; an identity orientation still returns a copy so callers
// can mutate the result freely. Quarter turns are built from a
// transpose and a flip, which keeps them exact pixel permutations.
func Apply(src image.Image, o Orientation) *image.RGBA {
	o = o.normalize()

	out := clone.AsRGBA(src)
	switch o.Quarters {
	case 1:
		out = transform.FlipH(transpose(out))
	case 2:
		out = transform.FlipH(transform.FlipV(out))
	case 3:
		out = transform.FlipV(transpose(out))
	}
	if o.Mirror {
		out = transform.FlipH(out)
	}
	return out
}

// transpose mirrors the raster across its main diagonal.
func transpose(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := dst.PixOffset(y, x)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
