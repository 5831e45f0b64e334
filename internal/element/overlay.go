package element

// overlaySubroles are accessibility subrole values that mark an overlay:
// a modal dialog, sheet, or floating panel raised above a window's main
// content.
var overlaySubroles = map[string]bool{
	"AXDialog":         true,
	"AXSheet":          true,
	"AXSystemDialog":   true,
	"AXSystemFloating": true,
	"AXFloatingWindow": true,
}

// DetectFrontmostOverlay examines the direct children of a single window's
// root element (elements is a preorder, depth-annotated flat traversal
// rooted at that window) and returns the element most likely to be the
// window's active overlay, trying three strategies in order:
//
//  1. Subrole: any direct or grandchild carrying an overlay subrole.
//  2. Focus: if the focused element descends from a non-first direct
//     child, and that child is meaningfully smaller than the window, it is
//     probably the overlay rather than the main content area.
//  3. Bounds: a non-first direct child that is both smaller than and
//     roughly centered within the window, the common dialog layout.
//
// Returns nil if the tree is empty or no strategy finds a candidate.
func DetectFrontmostOverlay(elements []Element) *Element {
	if len(elements) == 0 {
		return nil
	}
	root := elements[0]
	children := directChildren(elements, 0)
	if len(children) == 0 {
		return nil
	}

	for _, ci := range children {
		if overlaySubroles[elements[ci].Subrole] {
			return &elements[ci]
		}
		for _, gi := range directChildren(elements, ci) {
			if overlaySubroles[elements[gi].Subrole] {
				return &elements[gi]
			}
		}
	}

	if len(children) > 1 {
		focusedPos := -1
		for pos, ci := range children {
			if containsFocused(elements, ci) {
				focusedPos = pos
				break
			}
		}
		if focusedPos > 0 {
			candidate := children[focusedPos]
			if isOverlaySized(elements[candidate], root) {
				return &elements[candidate]
			}
		}
	}

	if len(children) > 1 {
		for _, ci := range children[1:] {
			if isOverlaySized(elements[ci], root) && isCentered(elements[ci], root) {
				return &elements[ci]
			}
		}
	}

	return nil
}

// directChildren returns the indices, within elements, of parentIdx's
// immediate children, relying on elements being a preorder traversal where
// depth only ever increases by exactly one step into a child.
func directChildren(elements []Element, parentIdx int) []int {
	parentDepth := elements[parentIdx].Depth
	var out []int
	for i := parentIdx + 1; i < len(elements); i++ {
		d := elements[i].Depth
		if d <= parentDepth {
			break
		}
		if d == parentDepth+1 {
			out = append(out, i)
		}
	}
	return out
}

func containsFocused(elements []Element, idx int) bool {
	if elements[idx].Focused {
		return true
	}
	for _, ci := range directChildren(elements, idx) {
		if containsFocused(elements, ci) {
			return true
		}
	}
	return false
}

// isOverlaySized reports whether candidate is meaningfully smaller than
// window — at least 20% smaller in some dimension — which rules out
// mistaking the main content area for an overlay.
func isOverlaySized(candidate, window Element) bool {
	winW, winH := window.Size.Width, window.Size.Height
	candW, candH := candidate.Size.Width, candidate.Size.Height
	if winW == 0 || winH == 0 || candW == 0 || candH == 0 {
		return false
	}
	return candW < winW*0.8 || candH < winH*0.8
}

// isCentered reports whether candidate's center sits within a quarter of
// window's width (horizontally) and height (vertically) of window's own
// center.
func isCentered(candidate, window Element) bool {
	winCenter := window.Bounds().Center()
	candCenter := candidate.Bounds().Center()
	threshX := window.Size.Width / 4
	threshY := window.Size.Height / 4
	dx := candCenter.X - winCenter.X
	dy := candCenter.Y - winCenter.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= threshX && dy <= threshY
}
