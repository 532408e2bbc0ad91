package core

import (
	"strings"
	"testing"
	"time"
)

func TestClock_Laps(t *testing.T) {
	c := NewClock()
	if d := c.Lap("before start"); d != 0 {
		t.Errorf("lap on a stopped clock = %s, want 0", d)
	}

	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Lap("first")
	time.Sleep(2 * time.Millisecond)
	c.Lap("second")
	c.Stop()

	laps := c.Laps()
	if len(laps) != 2 || laps[0].Name != "first" || laps[1].Name != "second" {
		t.Fatalf("laps = %+v", laps)
	}
	if sum := laps[0].Duration + laps[1].Duration; sum > c.Elapsed() {
		t.Errorf("laps add up to %s, more than the elapsed %s", sum, c.Elapsed())
	}

	c.Start()
	if len(c.Laps()) != 0 || c.Elapsed() != 0 {
		t.Error("Start should reset laps and elapsed time")
	}
}

func TestBuildMetrics_FillRatio(t *testing.T) {
	m := NewBuildMetrics()
	if m.FillRatio() != 0 {
		t.Errorf("empty metrics fill ratio = %v", m.FillRatio())
	}
	m.AtlasWidth, m.AtlasHeight, m.UsedArea = 256, 100, 6400
	if got := m.FillRatio(); got != 0.25 {
		t.Errorf("fill ratio = %v, want 0.25", got)
	}
	if s := m.String(); !strings.Contains(s, "atlas 256x100 (25.0% filled)") {
		t.Errorf("unexpected summary %q", s)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: LogLevelDebug},
		{in: " WARN ", want: LogLevelWarn},
		{in: "error", want: LogLevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewBuildID(t *testing.T) {
	a, b := NewBuildID(), NewBuildID()
	if len(a) != 8 || a == b {
		t.Errorf("build ids %q and %q", a, b)
	}
}
