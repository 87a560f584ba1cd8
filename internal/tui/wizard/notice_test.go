package wizard

import (
	"testing"
	"time"

	"github.com/stockline/herdctl/internal/form"
)

func TestNoticeShowAndDismiss(t *testing.T) {
	n := NewNotice()
	if n.IsVisible() {
		t.Fatal("new notice should be hidden")
	}

	cmd := n.Show(form.NotifyInfo, "draft saved", 2*time.Second)
	if cmd == nil {
		t.Fatal("Show should schedule a dismissal")
	}
	if !n.IsVisible() || n.Message() != "draft saved" {
		t.Error("notice should be visible with its message")
	}

	n.Update(NoticeDismissMsg{Seq: 1})
	if n.IsVisible() {
		t.Error("matching dismissal should hide the notice")
	}
}

func TestNoticeNewerShowingSurvivesStaleDismiss(t *testing.T) {
	n := NewNotice()
	n.Show(form.NotifyInfo, "first", time.Second)
	n.Show(form.NotifyWarn, "second", time.Second)

	// The first showing's timer fires; the second notice keeps its window.
	n.Update(NoticeDismissMsg{Seq: 1})
	if !n.IsVisible() {
		t.Fatal("stale dismissal must not hide a newer notice")
	}
	if n.Message() != "second" {
		t.Errorf("expected second notice, got %q", n.Message())
	}

	n.Update(NoticeDismissMsg{Seq: 2})
	if n.IsVisible() {
		t.Error("current dismissal should hide the notice")
	}
}

func TestNoticeViewHiddenIsEmpty(t *testing.T) {
	n := NewNotice()
	if got := n.View(80, 24); got != "" {
		t.Errorf("hidden notice should render empty, got %q", got)
	}
}
