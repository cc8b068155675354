package canvas

import "testing"

func TestScrollAnimatorEasesToTarget(t *testing.T) {
	area := NewScrollAreaCanvasItem(newScrollContent(100, 400))
	area.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 100})
	animator := NewScrollAnimator(area)

	animator.ScrollTo(IntPoint{Y: -100}, 0.2)
	if !animator.Active() {
		t.Fatal("animator not active after ScrollTo")
	}

	if !animator.Step(0.1) {
		t.Fatal("Step reported done at half duration")
	}
	// OutQuad has covered more than half the distance at half time.
	mid := area.ContentOrigin().Y
	if mid >= -50 || mid < -100 {
		t.Errorf("origin at half time = %d, want in (-100, -50)", mid)
	}

	if animator.Step(0.15) {
		t.Error("Step still running past the duration")
	}
	if got := area.ContentOrigin(); got != (IntPoint{Y: -100}) {
		t.Errorf("final origin = %v, want (0,-100)", got)
	}
	if animator.Active() {
		t.Error("animator still active after finishing")
	}
}

func TestScrollAnimatorRetargetsFromPendingTarget(t *testing.T) {
	area := NewScrollAreaCanvasItem(newScrollContent(100, 400))
	area.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 100})
	animator := NewScrollAnimator(area)

	animator.ScrollBy(IntPoint{Y: -40}, 0.2)
	animator.Step(0.05)
	// A second tick accumulates onto the pending target, not the current
	// position.
	animator.ScrollBy(IntPoint{Y: -40}, 0.2)
	for animator.Step(0.05) {
	}
	if got := area.ContentOrigin(); got != (IntPoint{Y: -80}) {
		t.Errorf("origin after two ticks = %v, want (0,-80)", got)
	}
}

func TestSmoothWheelEasesThroughAnimator(t *testing.T) {
	root, _ := newTestRoot(t)
	area := NewScrollAreaCanvasItem(newScrollContent(100, 1000))
	root.AddItem(area)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})
	animator := NewScrollAnimator(area)

	if !root.HandleWheel(IntPoint{X: 50, Y: 50}, 0, -2, false) {
		t.Fatal("wheel not handled")
	}
	if got := area.ContentOrigin(); got != (IntPoint{}) {
		t.Errorf("origin jumped to %v, want an eased start from zero", got)
	}
	if !animator.Active() {
		t.Fatal("animator not active after a smooth wheel tick")
	}
	for animator.Step(0.05) {
	}
	want := IntPoint{Y: -2 * DefaultConfig().ScrollWheelSpeed}
	if got := area.ContentOrigin(); got != want {
		t.Errorf("eased origin = %v, want %v", got, want)
	}
}

func TestSmoothScrollDisabledJumpsImmediately(t *testing.T) {
	sink := newRecordingSink()
	cfg := DefaultConfig()
	cfg.MaxFrameRate = 100000
	cfg.SmoothScroll = false
	root := NewRootCanvasItem(sink, cfg)
	t.Cleanup(root.Close)
	area := NewScrollAreaCanvasItem(newScrollContent(100, 1000))
	root.AddItem(area)
	root.HandleSizeChanged(IntSize{Width: 100, Height: 100})
	animator := NewScrollAnimator(area)

	root.HandleWheel(IntPoint{X: 50, Y: 50}, 0, -2, false)
	want := IntPoint{Y: -2 * cfg.ScrollWheelSpeed}
	if got := area.ContentOrigin(); got != want {
		t.Errorf("origin = %v, want immediate %v with smooth scroll off", got, want)
	}
	if animator.Active() {
		t.Error("animator engaged with smooth scroll off")
	}
}

func TestScrollAnimatorStepWithoutAnimation(t *testing.T) {
	area := NewScrollAreaCanvasItem(newScrollContent(100, 400))
	area.UpdateLayout(IntPoint{}, IntSize{Width: 100, Height: 100})
	animator := NewScrollAnimator(area)
	if animator.Step(0.1) {
		t.Error("Step reported progress with no animation")
	}
}
