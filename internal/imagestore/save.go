package imagestore

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SaveOptions select the codec and its compression setting for Save.
type SaveOptions struct {
	// Format is a codec identifier ("png", "jpg", "jpeg", "gif",
	// "tif", "tiff", "bmp"), matched case-insensitively. When empty,
	// the codec is derived from the destination path's extension.
	Format string

	// Compression is the codec's native quality/compression knob:
	// JPEG quality 1-100, PNG 0 = none / 1 = fastest / >=2 = best.
	// GIF and BMP ignore it. -1 always selects the codec default.
	Compression int
}

// DefaultSaveOptions returns options that derive the codec from the
// path and use its default compression.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{Compression: -1}
}

// codecs maps lowercase format identifiers to encoders. Lookup is the
// whole story: an identifier missing here is ErrUnsupportedFormat,
// never a silent fallback to some default codec.
var codecs = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
	"gif":  imaging.GIF,
	"tif":  imaging.TIFF,
	"tiff": imaging.TIFF,
	"bmp":  imaging.BMP,
}

func (img *Image) save(path string, opt SaveOptions) error {
	name := opt.Format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format, ok := codecs[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := imaging.Encode(f, img.bitmap, format, encodeOptions(format, opt.Compression)...); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func encodeOptions(format imaging.Format, compression int) []imaging.EncodeOption {
	if compression < 0 {
		return nil
	}
	switch format {
	case imaging.JPEG:
		if compression < 1 {
			compression = 1
		}
		if compression > 100 {
			compression = 100
		}
		return []imaging.EncodeOption{imaging.JPEGQuality(compression)}
	case imaging.PNG:
		level := png.BestCompression
		switch compression {
		case 0:
			level = png.NoCompression
		case 1:
			level = png.BestSpeed
		}
		return []imaging.EncodeOption{imaging.PNGCompressionLevel(level)}
	}
	return nil
}
