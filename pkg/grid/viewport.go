package grid

import "math"

// ShouldInvalidate reports whether moving the viewport to newBounds requires
// a new Prepare pass. Only a change of the cross-axis extent (width for a
// vertical flow, height for a horizontal flow) does; a flow-axis change just
// scrolls further. When it returns true the current bounds are remembered
// and available from PreviousBounds.
func (l *Layout) ShouldInvalidate(newBounds Rect) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.view == nil {
		return false
	}
	cur := l.view.Bounds()
	if crossExtent(l.Axis(), newBounds) == crossExtent(l.Axis(), cur) {
		return false
	}
	l.oldBounds = cur
	return true
}

// PreviousBounds returns the bounds recorded by the last ShouldInvalidate
// call that returned true.
func (l *Layout) PreviousBounds() Rect {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.oldBounds
}

// CorrectOffset clamps the host's flow-axis scroll offset after a size
// change so that the viewport does not sit past the end of the content.
// The offset is set without animation. With paging enabled nothing is
// changed. It reports whether the offset was moved.
func (l *Layout) CorrectOffset() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.view == nil || l.paging {
		return false
	}

	bounds := l.view.Bounds()
	content := l.ContentSize()
	offset := bounds.Origin()

	switch l.Axis() {
	case AxisHorizontal:
		limit := MaxOffset(content.Width, bounds.Width)
		if offset.X <= limit {
			return false
		}
		offset.X = limit
	default:
		limit := MaxOffset(content.Height, bounds.Height)
		if offset.Y <= limit {
			return false
		}
		offset.Y = limit
	}

	l.view.SetContentOffset(offset, false)
	l.logger.Debug("corrected content offset",
		"axis", l.Axis().String(), "x", offset.X, "y", offset.Y)
	return true
}

// MaxOffset is the largest valid scroll offset for a content extent shown
// in a viewport extent.
func MaxOffset(content, viewport float64) float64 {
	return math.Max(0, content-viewport)
}

func crossExtent(a Axis, r Rect) float64 {
	if a == AxisHorizontal {
		return r.Height
	}
	return r.Width
}
