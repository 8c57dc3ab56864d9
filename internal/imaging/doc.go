// Package imaging connects decoded images to the detection pipeline and turns
// detected boxes back into image output.
//
// It covers loading (with a shared cache), preprocessing a photo or scan into
// a detection mask, cropping boxes out as PNG files or base64 payloads, and
// drawing box overlays for inspection.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Boxes are cropped as half-open rectangles: (X1,Y1) inclusive, (X2,Y2) exclusive
//   - Boxes reaching past the image edge are clamped before cropping
//
// # Preprocessing
//
// Prepare follows the usual scan clean-up: grayscale, optional inversion for
// dark backgrounds, then a binary threshold. Paper becomes 0 in the mask and
// ink becomes 255.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and only read their input image.
//
// # Error Handling
//
// Functions return errors for:
//   - Boxes that do not intersect the image
//   - File I/O errors during loading or saving
//   - Encoding errors during image output
package imaging
