// Package integration provides integration tests for the scheduling engine.
package integration

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kampungcare/medsched/internal/api/handlers"
	"github.com/kampungcare/medsched/internal/cultural/engine"
	"github.com/kampungcare/medsched/internal/cultural/traditional"
	"github.com/kampungcare/medsched/internal/prayertime"
	"github.com/kampungcare/medsched/pkg/idempotency"
)

func TestMalayHouseholdSchedule(t *testing.T) {
	// Load fixture
	data, err := os.ReadFile("../fixtures/schedule_request_malay_household.json")
	if err != nil {
		t.Skipf("fixture not found: %v", err)
	}

	var req handlers.GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.Profile == nil {
		t.Fatal("fixture should carry a cultural profile")
	}
	if !req.Profile.Preferences.Prayer.Enabled {
		t.Fatal("fixture should enable prayer buffering")
	}

	eng := engine.NewDefault(nil)
	result := eng.GenerateSchedule(req.Medications, req.Profile, req.Household, engine.Options{
		PrayerWindows: prayertime.FallbackWindows(),
	})

	if result.Fallback {
		t.Fatal("complete request should not fall back")
	}

	// Metformin twice daily plus warfarin once daily
	if len(result.OptimizedSchedule) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(result.OptimizedSchedule))
	}

	supervised := 0
	for _, dose := range result.OptimizedSchedule {
		if dose.Time.String() == "" {
			t.Errorf("dose %s has no time", dose.MedicationID)
		}
		if dose.Supervisor != nil {
			supervised++
		}
	}
	if supervised == 0 {
		t.Error("household has a caregiver; expected at least one supervised dose")
	}

	// Ginseng alongside warfarin must surface an unsafe integration warning
	if result.CulturalGuidance.Traditional.SafetyLevel != traditional.SafetyUnsafe {
		t.Errorf("ginseng with warfarin should be unsafe, got %s",
			result.CulturalGuidance.Traditional.SafetyLevel)
	}
	foundGinseng := false
	for _, rec := range result.CulturalGuidance.Traditional.Recommendations {
		if strings.Contains(strings.ToLower(rec), "ginseng") {
			foundGinseng = true
		}
	}
	if !foundGinseng {
		t.Error("expected a ginseng interaction warning")
	}

	// Every recommendation must be actionable and translated
	for i, rec := range result.Recommendations {
		if rec.Message == "" {
			t.Errorf("recommendation %d has no message", i)
		}
		if rec.MultiLanguage["en"] == "" {
			t.Errorf("recommendation %d has no English fallback", i)
		}
	}

	t.Logf("generated %d doses, %d conflicts, %d recommendations",
		len(result.OptimizedSchedule), len(result.Conflicts), len(result.Recommendations))
}

func TestScheduleResultWireFormat(t *testing.T) {
	data, err := os.ReadFile("../fixtures/schedule_request_malay_household.json")
	if err != nil {
		t.Skipf("fixture not found: %v", err)
	}

	var req handlers.GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	eng := engine.NewDefault(nil)
	result := eng.GenerateSchedule(req.Medications, req.Profile, req.Household, engine.Options{})

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Clock times travel as "HH:MM" strings, never as raw minute counts
	var decoded map[string]interface{}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	doses, ok := decoded["optimized_schedule"].([]interface{})
	if !ok || len(doses) == 0 {
		t.Fatal("expected optimized_schedule array")
	}
	first, ok := doses[0].(map[string]interface{})
	if !ok {
		t.Fatal("expected dose object")
	}
	timeStr, ok := first["time"].(string)
	if !ok {
		t.Fatalf("dose time should encode as a string, got %T", first["time"])
	}
	if len(timeStr) != 5 || timeStr[2] != ':' {
		t.Errorf("dose time %q is not HH:MM", timeStr)
	}
}

func TestIdempotencyKeyDayBucket(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

	digest := idempotency.MedicationsDigest([]string{"med-metformin", "med-warfarin"})
	reordered := idempotency.MedicationsDigest([]string{"med-warfarin", "med-metformin"})
	if digest != reordered {
		t.Error("medication order should not change the digest")
	}

	key1 := idempotency.GenerateKey("patient-1", digest, "malay", morning)
	key2 := idempotency.GenerateKey("patient-1", digest, "malay", evening)
	key3 := idempotency.GenerateKey("patient-1", digest, "malay", nextDay)

	if key1 != key2 {
		t.Error("keys within the same day should match")
	}
	if key1 == key3 {
		t.Error("a new day should produce a new key")
	}
}
