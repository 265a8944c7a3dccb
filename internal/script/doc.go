// Package script embeds the Lua runtime and bridges it to the image
// store, the color conversions, the scan-order generator, and the
// surrounding viewer (the Host).
//
// # Calling Convention
//
// Every exposed function receives its arguments on the Lua stack and
// pushes its results back; the bridge validates argument count and
// type per call before dispatching into typed Go code. Validation can
// be switched off (Options.MinimizeChecking) for scripts that are
// trusted to pass correct arguments.
//
// # Error Reporting
//
// A failed validation or domain operation is recoverable: the bridge
// shows a notification through the Host naming the failing function
// and the script's current line, and returns the function's failure
// signal (nil or false plus a message) so scripts can branch on it.
// An unrecoverable interpreter fault instead unwinds the native stack
// and is caught only at the Run boundary, where it becomes a
// *FatalScriptError; it never escapes into persisted state, and the
// store's traversal cursor is reset on the way out.
//
// # Exposed Functions
//
// Image store: load_image, allocate_image, unload_image,
// traverse_image, set_current_pixel, get_pixel, get_image_dimensions,
// save_image.
//
// Conversions and ordering: rgb_to_hsv, hsv_to_rgb, zig_zag_order.
//
// Viewer surface: display_in_current_window, get_displayed_image,
// show_message_box, debug_print.
//
// Bitwise helpers for the scripting language's missing operators:
// bitwise_and, bitwise_or, bitwise_xor, bitwise_not.
package script
