package imagestore

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"

	// Decoders beyond the stdlib set that the viewer accepts.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Store is the handle-keyed image registry. The zero value is not
// usable; construct with New.
type Store struct {
	images     map[int]*Image
	nextHandle int
	traversing *Image // image whose cursor SetCurrentPixel writes through
}

// New creates an empty store.
func New() *Store {
	return &Store{images: make(map[int]*Image)}
}

// Load decodes the raster at path into a new image and returns its
// handle. Fails with ErrFileNotFound when the path cannot be opened
// and ErrDecode when no registered codec accepts the data.
func (s *Store) Load(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return s.add(src), nil
}

// Allocate creates a blank (fully transparent) w×h image and returns
// its handle. Fails with ErrInvalidDimensions unless both dimensions
// are positive.
func (s *Store) Allocate(w, h int) (int, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return s.add(image.NewNRGBA(image.Rect(0, 0, w, h))), nil
}

// add takes ownership of src under the next free handle.
func (s *Store) add(src image.Image) int {
	handle := s.nextHandle
	s.nextHandle++
	s.images[handle] = newImage(s, handle, src)
	return handle
}

// Image returns the live image for handle, or ErrHandleNotFound.
func (s *Store) Image(handle int) (*Image, error) {
	img, ok := s.images[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrHandleNotFound, handle)
	}
	return img, nil
}

// Unload removes and destroys the image for handle.
//
// Unloading the image a traversal is currently walking is allowed:
// the handle disappears from the registry immediately, but the
// running traversal keeps iterating (and SetCurrentPixel keeps
// writing into) the detached image until it completes. This is the
// memory-safe analogue of the original viewer, which took no
// defensive action here.
func (s *Store) Unload(handle int) error {
	if _, ok := s.images[handle]; !ok {
		return fmt.Errorf("%w: %d", ErrHandleNotFound, handle)
	}
	delete(s.images, handle)
	return nil
}

// Clear destroys every image and resets the handle counter to zero.
// This is the only way handles are ever reused.
func (s *Store) Clear() {
	s.images = make(map[int]*Image)
	s.nextHandle = 0
}

// Len returns the number of live images.
func (s *Store) Len() int { return len(s.images) }

// Dimensions returns the width and height of the image for handle.
func (s *Store) Dimensions(handle int) (w, h int, err error) {
	img, err := s.Image(handle)
	if err != nil {
		return 0, 0, err
	}
	w, h = img.Dimensions()
	return w, h, nil
}

// Pixel returns the pixel of the image for handle at (x, y).
func (s *Store) Pixel(handle, x, y int) (Pixel, error) {
	img, err := s.Image(handle)
	if err != nil {
		return Pixel{}, err
	}
	return img.Pixel(x, y)
}

// Save encodes the image for handle to path. See SaveOptions for the
// codec selection and compression rules.
func (s *Store) Save(handle int, path string, opt SaveOptions) error {
	img, err := s.Image(handle)
	if err != nil {
		return err
	}
	return img.save(path, opt)
}

// Traverse invokes cb exactly once per pixel of the image for handle,
// in row-major order starting at (0,0). The handle is resolved once,
// at call time: unloading it from inside cb does not stop the walk.
// Control stays inside cb for the duration of each visit; cb may
// re-enter the store synchronously, with the caveats described in the
// package documentation.
func (s *Store) Traverse(handle int, cb TraversalCallback) error {
	img, err := s.Image(handle)
	if err != nil {
		return err
	}
	img.traverse(cb)
	return nil
}

// SetCurrentPixel overwrites the pixel currently visited by the
// active traversal. Fails with ErrNoActiveTraversal when no traversal
// is in progress.
func (s *Store) SetCurrentPixel(p Pixel) error {
	if s.traversing == nil {
		return ErrNoActiveTraversal
	}
	s.traversing.setCurrentPixel(p)
	return nil
}
