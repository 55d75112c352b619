package prayertime

import (
	"testing"

	"github.com/kampungcare/medsched/internal/cultural/profile"
)

func TestParseWindows(t *testing.T) {
	windows, err := parseWindows(map[string]string{
		"subuh":   "05:52:00",
		"zohor":   "13:10:00",
		"asar":    "16:28:00",
		"maghrib": "19:18:00",
		"isyak":   "20:29:00",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(windows) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(windows))
	}
	if windows[0].Name != "subuh" || windows[0].Time != profile.MustTimeOfDay("05:52") {
		t.Errorf("first window = %s at %s", windows[0].Name, windows[0].Time)
	}
	if windows[3].Name != "maghrib" || windows[3].Time != profile.MustTimeOfDay("19:18") {
		t.Errorf("maghrib = %s at %s", windows[3].Name, windows[3].Time)
	}
}

func TestParseWindowsRejectsGarbage(t *testing.T) {
	_, err := parseWindows(map[string]string{
		"subuh": "not a time", "zohor": "13:10", "asar": "16:28",
		"maghrib": "19:18", "isyak": "20:29",
	})
	if err == nil {
		t.Error("expected a parse error")
	}
}

func TestFallbackWindowsOrdered(t *testing.T) {
	windows := FallbackWindows()
	if len(windows) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].Time <= windows[i-1].Time {
			t.Errorf("windows out of order: %s at %s before %s at %s",
				windows[i].Name, windows[i].Time, windows[i-1].Name, windows[i-1].Time)
		}
	}
}
