package telegram

import (
	"strings"
	"testing"
	"time"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"
	"loadtracker/internal/domain/push"
)

func mustReminder(t *testing.T, day time.Time) cycle.Reminder {
	t.Helper()
	r, err := cycle.ForDate(day)
	if err != nil {
		t.Fatalf("ForDate(%v) error: %v", day, err)
	}
	return r
}

func TestPhaseReply(t *testing.T) {
	r := mustReminder(t, time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC))
	if got, want := PhaseReply(r), "2024-03-18 is in ISO week 12 of 2024: Deload week."; got != want {
		t.Errorf("PhaseReply() = %q, want %q", got, want)
	}
}

func TestHelpText(t *testing.T) {
	public := HelpText(false)
	if strings.Contains(public, "/notify") || strings.Contains(public, "/history") {
		t.Error("public help lists admin commands")
	}
	for _, cmd := range []string{"/phase", "/next", "/help"} {
		if !strings.Contains(public, cmd) {
			t.Errorf("public help is missing %s", cmd)
		}
	}
	if admin := HelpText(true); !strings.Contains(admin, "/notify") || !strings.Contains(admin, "/history") {
		t.Error("admin help is missing admin commands")
	}
}

func TestNotifyReply(t *testing.T) {
	r := mustReminder(t, time.Date(2024, time.February, 19, 0, 0, 0, 0, time.UTC))

	sent := NotifyReply(&app.SendResult{Reminder: r, Receipt: push.Receipt{ID: "abc"}})
	if !strings.Contains(sent, "Deload next week") || !strings.Contains(sent, "2024-02-19") || !strings.Contains(sent, "abc") {
		t.Errorf("NotifyReply(sent) = %q", sent)
	}

	skipped := NotifyReply(&app.SendResult{Reminder: r, Skipped: true})
	if !strings.Contains(skipped, "already sent") {
		t.Errorf("NotifyReply(skipped) = %q", skipped)
	}

	load := NotifyReply(&app.SendResult{Reminder: mustReminder(t, time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC))})
	if !strings.Contains(load, `"Load next week"`) || !strings.Contains(load, "ISO week 9") {
		t.Errorf("NotifyReply(week 9) = %q", load)
	}
}

func TestHistoryReply(t *testing.T) {
	got := HistoryReply([]*dispatch.Dispatch{
		{TargetDate: time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC), ISOWeek: 12, Phase: cycle.PhaseDeload, Status: dispatch.StatusSent},
		{TargetDate: time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC), ISOWeek: 11, Phase: cycle.PhaseLoad, Status: dispatch.StatusFailed, ErrorMessage: "timeout"},
	})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("HistoryReply() lines = %d, want 3:\n%s", len(lines), got)
	}
	if lines[1] != "2024-03-18 W12 Deload: SENT" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "2024-03-17 W11 Load: FAILED (timeout)" {
		t.Errorf("line 2 = %q", lines[2])
	}
}
