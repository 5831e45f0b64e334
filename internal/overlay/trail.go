package overlay

import "github.com/deskauto/deskauto/internal/element"

// trailBuffer is sized generously since a single humanized movement or
// drag emits on the order of tens of points; Post drops points once full
// rather than blocking the action layer that's posting them.
const trailBuffer = 4096

// Trail implements action.TrailSink over a buffered channel, decoupling the
// action layer's synchronous input dispatch from whatever consumes the
// points (a live overlay window, or a post-hoc AnnotateTrail call once the
// action completes).
type Trail struct {
	points chan element.Point
}

// NewTrail returns a Trail ready to receive points.
func NewTrail() *Trail {
	return &Trail{points: make(chan element.Point, trailBuffer)}
}

// Post enqueues p, dropping it silently if the buffer is full so a slow or
// absent consumer never stalls pointer dispatch.
func (t *Trail) Post(p element.Point) {
	select {
	case t.points <- p:
	default:
	}
}

// Drain empties the buffer into a slice, in the order points were posted.
func (t *Trail) Drain() []element.Point {
	var out []element.Point
	for {
		select {
		case p := <-t.points:
			out = append(out, p)
		default:
			return out
		}
	}
}
