package editor

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"testing"
)

func newTestEditor(env map[string]string, onPath ...string) *Editor {
	return &Editor{
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			if slices.Contains(onPath, name) {
				return "/usr/bin/" + name, nil
			}
			return "", exec.ErrNotFound
		},
		candidates: []string{"nvim", "vim", "vi", "nano"},
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		onPath  []string
		want    []string
		wantErr error
	}{
		{
			name: "editor variable",
			env:  map[string]string{"EDITOR": "hx", "VISUAL": "code"},
			want: []string{"hx", "/tmp/tourtags.yaml"},
		},
		{
			name: "visual when editor unset",
			env:  map[string]string{"VISUAL": "code --wait"},
			want: []string{"code", "--wait", "/tmp/tourtags.yaml"},
		},
		{
			name:   "first candidate on path",
			onPath: []string{"nano", "vi"},
			want:   []string{"/usr/bin/vi", "/tmp/tourtags.yaml"},
		},
		{
			name:    "nothing found",
			wantErr: ErrNoEditor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(tt.env, tt.onPath...)
			cmd, err := e.Command(context.Background(), "/tmp/tourtags.yaml")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Command() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !slices.Equal(cmd.Args, tt.want) {
				t.Errorf("Args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}
}
