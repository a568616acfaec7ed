package hook

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/dwellpoint/internal/actuator"
	"github.com/ayusman/dwellpoint/internal/dwell"
)

// writeHook creates a hook directory under dir with a manifest and a shell script.
func writeHook(t *testing.T, dir string, manifest Manifest, script string) *Hook {
	t.Helper()

	hookPath := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(hookPath, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookPath, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	execPath := filepath.Join(hookPath, manifest.Executable)
	if err := os.WriteFile(execPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Hook{Manifest: manifest, Path: hookPath, Executable: execPath}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
}

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "beep", Version: "1.0.0", Executable: "run.sh", Actions: []string{"double_click"}}, "#!/bin/sh\n")
	writeHook(t, dir, Manifest{Name: "all", Executable: "run.sh"}, "#!/bin/sh\n")

	// Directories without a valid manifest are ignored
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	bad := filepath.Join(dir, "bad")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	hooks := m.List()
	if len(hooks) != 2 {
		t.Fatalf("expected 2 hooks, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "all" || hooks[1].Manifest.Name != "beep" {
		t.Errorf("hooks not sorted by name: %s, %s", hooks[0].Manifest.Name, hooks[1].Manifest.Name)
	}

	if want := filepath.Join(dir, "beep", "run.sh"); hooks[1].Executable != want {
		t.Errorf("Executable = %q, want %q", hooks[1].Executable, want)
	}

	if got := m.For("double_click"); len(got) != 2 {
		t.Errorf("For(double_click) = %d hooks, want 2", len(got))
	}
	if got := m.For("button_down"); len(got) != 1 || got[0].Manifest.Name != "all" {
		t.Errorf("For(button_down) = %v, want only 'all'", got)
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no hooks")
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	out := filepath.Join(dir, "received.json")
	h := writeHook(t, dir, Manifest{Name: "echo", Executable: "echo.sh"}, `#!/bin/sh
cat > "`+out+`"
echo '{"success":true}'
`)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), h, &Request{Action: "button_down", X: 300, Y: 100, Timestamp: 42})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("hook did not record its input: %v", err)
	}
	var got Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid request JSON %q: %v", data, err)
	}
	if got.Action != "button_down" || got.X != 300 || got.Y != 100 || got.Timestamp != 42 {
		t.Errorf("hook received %+v", got)
	}
}

func TestExecutor_Execute_Failures(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		wantErr string
		wantMsg string
	}{
		{"error response", "#!/bin/sh\necho '{\"success\":false,\"error\":\"no speaker\"}'\n", 5 * time.Second, "", "no speaker"},
		{"invalid json", "#!/bin/sh\necho 'not json'\n", 5 * time.Second, "parse", ""},
		{"non-zero exit", "#!/bin/sh\necho oops >&2\nexit 1\n", 5 * time.Second, "oops", ""},
		{"timeout", "#!/bin/sh\nsleep 10\n", 100 * time.Millisecond, "timed out", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := writeHook(t, t.TempDir(), Manifest{Name: "h", Executable: "h.sh"}, tt.script)

			resp, err := NewExecutor(tt.timeout).Execute(context.Background(), h, &Request{Action: "button_up"})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Execute() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if resp.Success || resp.Error != tt.wantMsg {
				t.Errorf("response = %+v, want failure %q", resp, tt.wantMsg)
			}
		})
	}
}

func TestDispatcher_RunsSubscribedHooks(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	script := `#!/bin/sh
cat >> "` + logPath + `"
echo >> "` + logPath + `"
echo '{"success":true}'
`
	writeHook(t, dir, Manifest{Name: "doubles", Executable: "run.sh", Actions: []string{"double_click"}}, script)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	d := NewDispatcher(m, NewExecutor(5*time.Second))

	// Actions before Start are ignored
	d.Handle(dwell.Action{Kind: dwell.ActionDoubleClick})

	d.Start()
	d.Handle(dwell.Action{Kind: dwell.ActionButtonDown, Point: actuator.ScreenPoint{X: 1, Y: 1}})
	d.Handle(dwell.Action{Kind: dwell.ActionDoubleClick, Point: actuator.ScreenPoint{X: 300, Y: 100}})
	d.Stop()

	// Actions after Stop are ignored
	d.Handle(dwell.Action{Kind: dwell.ActionDoubleClick})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("hook never ran: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("hook ran %d times, want 1: %q", len(lines), data)
	}

	var got Request
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("invalid request JSON %q: %v", lines[0], err)
	}
	if got.Action != "double_click" || got.X != 300 || got.Y != 100 {
		t.Errorf("hook received %+v, want double_click at (300,100)", got)
	}
}
