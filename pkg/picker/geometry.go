// Package picker brokers visual element selection: a capture backend
// photographs a page and reports clickable elements, the geometry engine
// projects their bounding boxes onto an overlay rendered at arbitrary
// display scale, and a session writes the chosen selector back into the
// step collection.
package picker

// Size is a pixel dimension pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBox locates an element. Captured boxes are in the page's viewport
// pixel space; projected boxes are in displayed-overlay space.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is the scale mapping from captured-page pixel space to
// displayed-screenshot pixel space.
type Transform struct {
	ScaleX float64
	ScaleY float64
}

// ComputeOverlayTransform derives the per-axis scale factors from the size
// the screenshot is displayed at and the viewport size it was captured at.
// This corrects for the overlay being rendered at a different pixel density
// than the page. A zero viewport axis yields a zero scale for that axis.
func ComputeOverlayTransform(displayed, viewport Size) Transform {
	var t Transform
	if viewport.Width > 0 {
		t.ScaleX = displayed.Width / viewport.Width
	}
	if viewport.Height > 0 {
		t.ScaleY = displayed.Height / viewport.Height
	}
	return t
}

// ProjectBoundingBox maps a captured box into overlay space, scaling each
// coordinate by the matching axis factor.
func ProjectBoundingBox(box BoundingBox, t Transform) BoundingBox {
	return BoundingBox{
		X:      box.X * t.ScaleX,
		Y:      box.Y * t.ScaleY,
		Width:  box.Width * t.ScaleX,
		Height: box.Height * t.ScaleY,
	}
}
