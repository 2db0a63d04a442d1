package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/ai-footprint-tui/internal/models"
	"github.com/j-veylop/ai-footprint-tui/internal/sites"
	"github.com/j-veylop/ai-footprint-tui/internal/version"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"daemon", "status", "reset", "focus", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(buf.String(), version.GetVersion()) {
		t.Errorf("output %q missing version", buf.String())
	}
}

func TestWriteStatus(t *testing.T) {
	tests := []struct {
		name  string
		state func() models.State
		want  []string
		skip  []string
	}{
		{
			name:  "Empty",
			state: models.DefaultState,
			want:  []string{"Not active", "0s", "No tracked usage yet."},
		},
		{
			name: "ActiveWithUsage",
			state: func() models.State {
				st := models.DefaultState()
				st.CumulativeMs = 1_800_000
				st.PerHostMs["claude.ai"] = 1_800_000
				st.CurrentSession = models.NewSession(
					models.TrackedSite{Host: "claude.ai", SiteName: "Anthropic Claude"},
					time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
				)
				st.CurrentSession.ElapsedMs = 65_000
				return st
			},
			want: []string{"Anthropic Claude (1m 5s)", "30m 0s", "10.50 g", "255.0 ml", "5.40 Wh", "claude.ai"},
			skip: []string{"No tracked usage yet."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeStatus(&buf, tt.state(), sites.Default()); err != nil {
				t.Fatalf("writeStatus: %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}
