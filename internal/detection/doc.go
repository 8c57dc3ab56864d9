// Package detection finds foreground regions in a thresholded mask and reduces
// them to a small set of non-overlapping bounding boxes.
//
// # Pipeline
//
// Detection runs in three stages:
//
//  1. RegionExtractor: smooths the mask, binarizes it, fills enclosed holes and
//     labels 4-connected components, returning one extent per component
//  2. BuildBoxes: converts each extent into a normalized BoundingBox
//  3. OverlapMerger: finds overlapping boxes through a k-d tree of box corners
//     and widens them into enclosing boxes
//
// A typical call chain:
//
//	regions := detection.NewRegionExtractor().Extract(mask)
//	boxes := detection.NewOverlapMerger().Merge(detection.BuildBoxes(regions))
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward (columns)
//   - Y increases downward (rows)
//   - Region extents are half-open image.Rectangles (Max exclusive)
//   - BoundingBox corners are both inside the box for overlap purposes
//
// # Error Handling
//
// Nothing in this package returns an error. Corners given in the wrong order
// are swapped rather than rejected, and an empty mask simply produces no
// regions and no boxes.
//
// # Concurrency
//
// All functions are synchronous. Separate masks may be processed on separate
// goroutines; a single merge must not be split across goroutines because it
// mutates boxes that several corners share.
package detection
