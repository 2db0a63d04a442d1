package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestHelperProcess stands in for git when execCommand is replaced by fakeGit.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("AFT_FAKE_GIT") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("AFT_FAKE_GIT_COMMIT") == "fail" {
			os.Exit(1)
		}
		os.Stdout.WriteString("abc1234")
	case "--tags":
		switch os.Getenv("AFT_FAKE_GIT_TAG") {
		case "fail":
			os.Exit(1)
		case "empty":
		default:
			os.Stdout.WriteString("v0.3.0")
		}
	}
}

// fakeGit routes git invocations to TestHelperProcess, forwarding the
// AFT_FAKE_GIT_* knobs and counting calls.
func fakeGit(t *testing.T, calls *int) {
	t.Helper()

	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*calls++
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"AFT_FAKE_GIT=1",
			"AFT_FAKE_GIT_COMMIT=" + os.Getenv("AFT_FAKE_GIT_COMMIT"),
			"AFT_FAKE_GIT_TAG=" + os.Getenv("AFT_FAKE_GIT_TAG"),
		}
		return cmd
	}
}

// setBuildValues simulates values injected with -ldflags.
func setBuildValues(t *testing.T, version, commit, date string) {
	t.Helper()

	origV, origC, origD := ldVersion, ldCommit, ldDate
	t.Cleanup(func() {
		ldVersion, ldCommit, ldDate = origV, origC, origD
		Reset()
	})
	ldVersion, ldCommit, ldDate = version, commit, date
}

func TestGitFallback(t *testing.T) {
	tests := []struct {
		name       string
		commitMode string
		tagMode    string
		wantVer    string
		wantCommit string
	}{
		{name: "Tagged", wantVer: "v0.3.0", wantCommit: "abc1234"},
		{name: "CommitFails", commitMode: "fail", wantVer: "v0.3.0", wantCommit: "unknown"},
		{name: "TagFails", tagMode: "fail", wantVer: "dev", wantCommit: "abc1234"},
		{name: "NoTags", tagMode: "empty", wantVer: "dev", wantCommit: "abc1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			fakeGit(t, &calls)
			t.Setenv("AFT_FAKE_GIT_COMMIT", tt.commitMode)
			t.Setenv("AFT_FAKE_GIT_TAG", tt.tagMode)
			Reset()

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, Name+" "+tt.wantVer) || !strings.Contains(info, tt.wantCommit) {
				t.Errorf("Info() = %q", info)
			}
			if calls != 2 {
				t.Errorf("git ran %d times, want 2", calls)
			}
		})
	}
}

func TestReset_UsesBuildValues(t *testing.T) {
	var calls int
	fakeGit(t, &calls)
	setBuildValues(t, "v1.2.3", "deadbeef", "2026-10-01")

	// Values drifted from what the build injected.
	Version, Commit, Date = "stale", "stale", "stale"
	Reset()

	if got := GetVersion(); got != "v1.2.3" {
		t.Errorf("GetVersion() = %q, want v1.2.3", got)
	}
	if got := GetCommit(); got != "deadbeef" {
		t.Errorf("GetCommit() = %q, want deadbeef", got)
	}
	if got := GetDate(); got != "2026-10-01" {
		t.Errorf("GetDate() = %q, want 2026-10-01", got)
	}
	if calls != 0 {
		t.Errorf("git ran %d times with full build values", calls)
	}
}

func TestReset_RecomputesFallbacks(t *testing.T) {
	var calls int
	fakeGit(t, &calls)
	setBuildValues(t, "", "", "")

	Reset()
	_ = GetVersion()
	_ = GetCommit()
	if calls != 2 {
		t.Fatalf("first resolve ran git %d times, want 2", calls)
	}

	// Cached until the next Reset.
	_ = Info()
	if calls != 2 {
		t.Errorf("accessors re-ran git without Reset (%d calls)", calls)
	}

	t.Setenv("AFT_FAKE_GIT_TAG", "empty")
	Reset()
	if got := GetVersion(); got != "dev" {
		t.Errorf("GetVersion() after Reset = %q, want dev", got)
	}
	if calls != 4 {
		t.Errorf("Reset should resolve again, git ran %d times", calls)
	}
}

func TestGetDate_DefaultsToToday(t *testing.T) {
	var calls int
	fakeGit(t, &calls)
	setBuildValues(t, "v1.0.0", "abc", "")
	Reset()

	if got, want := GetDate(), time.Now().Format("2006-01-02"); got != want {
		t.Errorf("GetDate() = %q, want %q", got, want)
	}
}
