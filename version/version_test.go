package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetUnstamped(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
}

func TestGetStamped(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected '1.2.0', got %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("expected stamped build time, got %q", info.BuildTime)
	}
}

func TestGetTruncatesLongRevision(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if len(info.GitCommit) > 7 {
		t.Errorf("expected commit truncated to 7 chars, got %q", info.GitCommit)
	}
}

func TestShortStamped(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = ""

	sv := Short()
	if !strings.HasPrefix(sv, "1.2.0-abc1234") {
		t.Errorf("expected short version to start with '1.2.0-abc1234', got %q", sv)
	}
}

func TestShortUnstamped(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	sv := Short()
	if !strings.HasPrefix(sv, "dev") {
		t.Errorf("expected short version to start with 'dev', got %q", sv)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.0",
		GitCommit: "abc1234",
		BuildTime: "2026-01-15T10:30:00Z",
		GoVersion: "go1.26.0",
	}

	s := info.String()
	if !strings.Contains(s, "1.2.0-abc1234") {
		t.Errorf("expected version and commit, got %q", s)
	}
	if !strings.Contains(s, "built 2026-01-15T10:30:00Z") {
		t.Errorf("expected build time, got %q", s)
	}
	if !strings.Contains(s, "go1.26.0") {
		t.Errorf("expected go version, got %q", s)
	}
}

func TestInfoStringDirty(t *testing.T) {
	info := Info{Version: "1.2.0", GitCommit: "abc1234", Dirty: true}
	s := info.String()
	if !strings.Contains(s, "dirty") {
		t.Errorf("expected dirty marker, got %q", s)
	}
}
