package tray

import (
	"testing"

	"github.com/ayusman/dwellpoint/internal/dwell"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) {
		got = append(got, enabled)
	})

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("tray should be enabled after two toggles")
	}
}

func TestTray_Quit(t *testing.T) {
	tr := New()

	called := false
	tr.OnQuit(func() { called = true })
	tr.handleQuit()

	if !called {
		t.Error("quit callback should be called")
	}

	// No callback is fine
	New().handleQuit()
}

func TestTray_SetLastAction(t *testing.T) {
	tests := []struct {
		kind dwell.ActionKind
		want string
	}{
		{dwell.ActionButtonDown, "press"},
		{dwell.ActionButtonUp, "release"},
		{dwell.ActionDoubleClick, "double-click"},
	}

	tr := New()
	if tr.LastAction() != "" {
		t.Errorf("LastAction() = %q before any action", tr.LastAction())
	}

	for _, tt := range tests {
		tr.SetLastAction(dwell.Action{Kind: tt.kind})
		if got := tr.LastAction(); got != tt.want {
			t.Errorf("SetLastAction(%s): LastAction() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTitles(t *testing.T) {
	if got := toggleTitle(true); got != "● Enabled" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Disabled" {
		t.Errorf("toggleTitle(false) = %q", got)
	}
	if got := lastTitle(""); got != "Last: none" {
		t.Errorf("lastTitle(\"\") = %q", got)
	}
	if got := lastTitle("press"); got != "Last: press" {
		t.Errorf("lastTitle(press) = %q", got)
	}
}
