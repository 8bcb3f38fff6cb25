package cmd

import (
	"strings"
	"testing"
)

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "alert",
			args:     []string{"render", "alert", "Hello", "World"},
			contains: []string{`<div class="darktalk" style="z-index: 101">`, "<header>Hello</header>", `data-name="js-ok"`},
			excludes: []string{`data-name="js-cancel"`},
		},
		{
			name:     "confirm with custom buttons",
			args:     []string{"render", "confirm", "Q", "--button", "yes=Yes", "--button", "no=No"},
			contains: []string{`data-name="js-yes">Yes</button><button data-name="js-no">No</button>`},
		},
		{
			name:     "password prompt",
			args:     []string{"render", "prompt", "Secret", "", "hunter2", "--password"},
			contains: []string{`type="password"`, `value="hunter2"`, `data-name="js-input"`},
		},
		{
			name:     "progress",
			args:     []string{"render", "progress", "Copy", "--percent", "30"},
			contains: []string{`value="30"`, "30%", "Abort"},
		},
		{
			name:     "inner markup",
			args:     []string{"render", "alert", "Hi", "--inner"},
			contains: []string{`<main class="page">`},
			excludes: []string{`class="darktalk"`},
		},
		{
			name:     "sanitized",
			args:     []string{"render", "alert", "<script>x()</script>Hi", "<b>bold</b>"},
			contains: []string{"<b>bold</b>"},
			excludes: []string{"<script"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := executeCommand(t, "render", "modal", "Hi"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestRenderUsesConfiguredLabels(t *testing.T) {
	t.Setenv("DARKTALK_LABELS_OK", "Ja")
	out, err := executeCommand(t, "render", "alert", "Hi")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `data-name="js-ok">Ja</button>`) {
		t.Errorf("output = %q, want configured label", out)
	}
}
