package wizard

import "testing"

func TestButtonBarFocusTraversal(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, true, "Next →"))

	if bar.FocusedButton() != ButtonNone {
		t.Fatal("new bar should have no focus")
	}

	bar.FocusFirst()
	if bar.FocusedButton() != ButtonBack {
		t.Errorf("expected ButtonBack focused, got %v", bar.FocusedButton())
	}

	if !bar.FocusNext() {
		t.Fatal("FocusNext should land on Next")
	}
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("expected ButtonNext focused, got %v", bar.FocusedButton())
	}

	// Running off the end blurs the bar
	if bar.FocusNext() {
		t.Error("FocusNext past the last button should return false")
	}
	if bar.FocusedButton() != ButtonNone {
		t.Error("bar should be blurred after running off the end")
	}
}

func TestButtonBarSkipsDisabled(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(false, true, "Next →"))

	bar.FocusFirst()
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("disabled Back should be skipped, got %v", bar.FocusedButton())
	}

	if bar.FocusPrev() {
		t.Error("FocusPrev should run off the front when Back is disabled")
	}
}

func TestButtonBarFocusLast(t *testing.T) {
	bar := NewButtonBar(CreateCancelNextButtons(false, "Next →"))

	bar.FocusLast()
	if bar.FocusedButton() != ButtonCancel {
		t.Errorf("disabled Next should be skipped from the end, got %v", bar.FocusedButton())
	}
}

func TestButtonBarSetEnabled(t *testing.T) {
	bar := NewButtonBar(CreateBackNextButtons(true, false, "Submit"))

	bar.SetEnabled(ButtonNext, true)
	bar.FocusLast()
	if bar.FocusedButton() != ButtonNext {
		t.Errorf("re-enabled Next should be focusable, got %v", bar.FocusedButton())
	}

	// Disabling the focused button drops focus
	bar.SetEnabled(ButtonNext, false)
	if bar.FocusedButton() != ButtonNone {
		t.Error("disabling the focused button should blur it")
	}
}

func TestRenderHintBar(t *testing.T) {
	if got := RenderHintBar(); got != "" {
		t.Errorf("empty hint bar should render empty, got %q", got)
	}
	if got := RenderHintBar("odd"); got != "" {
		t.Errorf("odd pair count should render empty, got %q", got)
	}
	if got := RenderHintBar("enter", "select"); got == "" {
		t.Error("valid pair should render non-empty")
	}
}
