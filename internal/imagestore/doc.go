// Package imagestore owns the in-memory raster images that scripts
// operate on.
//
// A Store is a registry of Images keyed by an opaque integer handle.
// Handles are assigned from a monotonically increasing counter and are
// never reused while the store lives; only Clear resets the counter.
// The store exclusively owns every Image it holds: images are created
// by Load or Allocate and destroyed by Unload or Clear.
//
// # Pixel Buffer
//
// Every Image is backed by an 8-bit RGBA buffer in row-major order,
// four bytes per pixel, with a possibly padded row pitch. Sources
// decoded without an alpha channel are promoted to RGBA on load and
// flagged via AlphaPromoted. All channel values are in [0,255].
//
// # Traversal
//
// Traverse visits every pixel of an image in strict row-major order
// (y outer, x inner), invoking a caller-supplied callback once per
// coordinate. Before each invocation the store points its single
// active-traversal reference at the image and positions the image's
// cursor on the visited pixel; SetCurrentPixel writes through that
// cursor. The callback may re-enter the store synchronously (nested
// traversal, load, unload, ...). Because the active-traversal
// reference is shared mutable state, a nested traversal overwrites it:
// a callback that starts a nested traversal and calls SetCurrentPixel
// afterwards writes into the wrong image (or fails once the nested
// traversal has completed). This is a documented hazard of the
// scripting contract, deliberately not repaired here.
//
// # Thread Safety
//
// The store is single-threaded by design. The surrounding viewer runs
// the UI event loop and the scripting runtime on one thread, so no
// locking is performed anywhere in this package.
package imagestore
