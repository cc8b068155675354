package canvas

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// wheelScrollDuration is how long an eased wheel tick takes, in seconds.
const wheelScrollDuration = 0.15

// ScrollAnimator eases a scroll area toward a target origin instead of
// jumping. The owner drives it from its frame tick: call Step with the
// elapsed seconds until it reports done. Not safe for concurrent use; drive
// it from the UI goroutine.
//
// Binding an animator routes the area's line wheel scrolling through it
// when smooth scrolling is configured.
type ScrollAnimator struct {
	area   *ScrollAreaCanvasItem
	tweenX *gween.Tween
	tweenY *gween.Tween
	target IntPoint
}

// NewScrollAnimator returns an animator bound to area.
func NewScrollAnimator(area *ScrollAreaCanvasItem) *ScrollAnimator {
	a := &ScrollAnimator{area: area}
	area.smu.Lock()
	area.animator = a
	area.smu.Unlock()
	return a
}

// ScrollTo starts easing toward origin over duration seconds. A new call
// retargets a running animation from the current position.
func (a *ScrollAnimator) ScrollTo(origin IntPoint, duration float32) {
	from := a.area.ContentOrigin()
	a.target = origin
	a.tweenX = gween.New(float32(from.X), float32(origin.X), duration, ease.OutQuad)
	a.tweenY = gween.New(float32(from.Y), float32(origin.Y), duration, ease.OutQuad)
}

// ScrollBy eases by delta relative to the current target, so rapid wheel
// ticks accumulate instead of restarting.
func (a *ScrollAnimator) ScrollBy(delta IntPoint, duration float32) {
	base := a.area.ContentOrigin()
	if a.Active() {
		base = a.target
	}
	a.ScrollTo(base.Add(delta), duration)
}

// Active reports whether an animation is running.
func (a *ScrollAnimator) Active() bool {
	return a.tweenX != nil
}

// Step advances the animation by dt seconds and applies the eased origin.
// It returns false once the animation has finished.
func (a *ScrollAnimator) Step(dt float32) bool {
	if a.tweenX == nil {
		return false
	}
	x, doneX := a.tweenX.Update(dt)
	y, doneY := a.tweenY.Update(dt)
	a.area.ScrollTo(IntPoint{X: int(x), Y: int(y)})
	if doneX && doneY {
		a.tweenX = nil
		a.tweenY = nil
		return false
	}
	return true
}
