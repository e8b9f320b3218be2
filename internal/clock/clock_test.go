package clock

import (
	"io"
	"log/slog"
	"regexp"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var stampRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)

func TestNew_ValidZone(t *testing.T) {
	c := New("America/Denver", discardLogger())
	if c.Zone() != "America/Denver" {
		t.Errorf("expected America/Denver, got %q", c.Zone())
	}
}

func TestNew_InvalidZoneFallsBack(t *testing.T) {
	c := New("Not/AZone", discardLogger())
	if c.Zone() != DefaultTimezone {
		t.Errorf("expected fallback to %s, got %q", DefaultTimezone, c.Zone())
	}
}

func TestNow_Format(t *testing.T) {
	c := New(DefaultTimezone, discardLogger())
	if got := c.Now(); !stampRe.MatchString(got) {
		t.Errorf("unexpected timestamp format %q", got)
	}
}

func TestNowIn_InvalidZoneUsesClockZone(t *testing.T) {
	c := New("UTC", discardLogger())
	if got := c.NowIn("Bad/Zone"); !stampRe.MatchString(got) {
		t.Errorf("unexpected timestamp format %q", got)
	}
}
