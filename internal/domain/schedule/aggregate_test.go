package schedule

import (
	"testing"
	"time"
)

func requested(t *testing.T) *Aggregate {
	t.Helper()
	agg := NewAggregate("sch-1")
	err := agg.Request(&ScheduleRequestedData{
		ScheduleID:      "sch-1",
		PatientID:       "patient-1",
		Culture:         "malay",
		MedicationCount: 2,
		RequestedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return agg
}

func TestLifecycleHappyPath(t *testing.T) {
	agg := requested(t)
	if agg.Status() != StatusRequested {
		t.Fatalf("status = %s, want requested", agg.Status())
	}

	err := agg.MarkGenerated(&ScheduleGeneratedData{
		ScheduleID: "sch-1", PatientID: "patient-1",
		DoseCount: 4, ConflictCount: 1, GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if agg.Status() != StatusGenerated || agg.DoseCount() != 4 {
		t.Errorf("status=%s doses=%d, want generated with 4 doses", agg.Status(), agg.DoseCount())
	}

	if err := agg.MarkDelivered("whatsapp", "msg-1"); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if agg.Status() != StatusDelivered {
		t.Errorf("status = %s, want delivered", agg.Status())
	}
	if agg.Version() != 3 {
		t.Errorf("version = %d, want 3", agg.Version())
	}
	if len(agg.Changes()) != 3 {
		t.Errorf("uncommitted changes = %d, want 3", len(agg.Changes()))
	}
}

func TestFallbackPath(t *testing.T) {
	agg := requested(t)
	if err := agg.MarkFellBack("cultural profile missing", 2); err != nil {
		t.Fatalf("mark fell back: %v", err)
	}
	if agg.Status() != StatusFallback {
		t.Errorf("status = %s, want fallback", agg.Status())
	}
	// A fallback schedule can still be delivered.
	if err := agg.MarkDelivered("sms", "msg-2"); err != nil {
		t.Errorf("fallback delivery should be allowed: %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	agg := NewAggregate("sch-2")
	if err := agg.MarkGenerated(&ScheduleGeneratedData{}); err == nil {
		t.Error("generating before request should fail")
	}
	if err := agg.MarkDelivered("sms", "m"); err == nil {
		t.Error("delivering a draft should fail")
	}

	agg = requested(t)
	if err := agg.Request(&ScheduleRequestedData{}); err == nil {
		t.Error("double request should fail")
	}
}

func TestSupersedeReplacesCurrentSchedule(t *testing.T) {
	agg := requested(t)
	if err := agg.Supersede("sch-next"); err == nil {
		t.Error("superseding a requested schedule should fail")
	}

	if err := agg.MarkGenerated(&ScheduleGeneratedData{ScheduleID: "sch-1", DoseCount: 2}); err != nil {
		t.Fatal(err)
	}
	if err := agg.Supersede("sch-next"); err != nil {
		t.Fatalf("supersede: %v", err)
	}
	if agg.Status() != StatusSuperseded {
		t.Errorf("status = %s, want superseded", agg.Status())
	}
	// Superseded is terminal.
	if err := agg.MarkDelivered("sms", "m"); err == nil {
		t.Error("delivering a superseded schedule should fail")
	}
	if err := agg.Cancel("stale"); err == nil {
		t.Error("cancelling a superseded schedule should fail")
	}
}

func TestSupersedeAfterDelivery(t *testing.T) {
	agg := requested(t)
	if err := agg.MarkGenerated(&ScheduleGeneratedData{ScheduleID: "sch-1", DoseCount: 2}); err != nil {
		t.Fatal(err)
	}
	if err := agg.MarkDelivered("whatsapp", "msg-1"); err != nil {
		t.Fatal(err)
	}
	// The next day's schedule replaces an already delivered one.
	if err := agg.Supersede("sch-next"); err != nil {
		t.Fatalf("supersede after delivery: %v", err)
	}
	if agg.Status() != StatusSuperseded {
		t.Errorf("status = %s, want superseded", agg.Status())
	}
}

func TestCancelLifecycle(t *testing.T) {
	agg := NewAggregate("sch-3")
	if err := agg.Cancel("entered in error"); err == nil {
		t.Error("cancelling a draft should fail")
	}

	agg = requested(t)
	if err := agg.Cancel("patient admitted to hospital"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if agg.Status() != StatusCancelled {
		t.Errorf("status = %s, want cancelled", agg.Status())
	}
	// Cancelled is terminal.
	if err := agg.Cancel("again"); err == nil {
		t.Error("double cancel should fail")
	}
	if err := agg.MarkGenerated(&ScheduleGeneratedData{}); err == nil {
		t.Error("generating a cancelled schedule should fail")
	}
}

func TestSupersededRebuildsFromHistory(t *testing.T) {
	agg := requested(t)
	if err := agg.MarkGenerated(&ScheduleGeneratedData{ScheduleID: "sch-1", DoseCount: 2}); err != nil {
		t.Fatal(err)
	}
	if err := agg.Supersede("sch-next"); err != nil {
		t.Fatal(err)
	}

	rebuilt := NewAggregate("sch-1")
	rebuilt.LoadFromHistory(agg.Changes())
	if rebuilt.Status() != StatusSuperseded {
		t.Errorf("rebuilt status = %s, want superseded", rebuilt.Status())
	}
}

func TestLoadFromHistoryRebuildsState(t *testing.T) {
	agg := requested(t)
	if err := agg.MarkGenerated(&ScheduleGeneratedData{ScheduleID: "sch-1", DoseCount: 3}); err != nil {
		t.Fatal(err)
	}

	events := agg.Changes()
	rebuilt := NewAggregate("sch-1")
	rebuilt.LoadFromHistory(events)

	if rebuilt.Status() != StatusGenerated {
		t.Errorf("rebuilt status = %s, want generated", rebuilt.Status())
	}
	if rebuilt.PatientID() != "patient-1" || rebuilt.DoseCount() != 3 {
		t.Errorf("rebuilt patient=%s doses=%d", rebuilt.PatientID(), rebuilt.DoseCount())
	}
	if rebuilt.Version() != agg.Version() {
		t.Errorf("rebuilt version = %d, want %d", rebuilt.Version(), agg.Version())
	}
}
