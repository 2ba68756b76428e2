package cycle

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPhaseForWeek_DeloadEveryFourthWeek(t *testing.T) {
	for w := 1; w <= 53; w++ {
		got, err := PhaseForWeek(w)
		if err != nil {
			t.Fatalf("PhaseForWeek(%d) error: %v", w, err)
		}
		want := PhaseLoad
		if w%4 == 0 {
			want = PhaseDeload
		}
		if got != want {
			t.Errorf("PhaseForWeek(%d) = %s, want %s", w, got, want)
		}
	}
}

func TestPhaseForWeek_OutOfRange(t *testing.T) {
	for _, w := range []int{-1, 0, 54, 100} {
		if _, err := PhaseForWeek(w); !errors.Is(err, ErrInvalidWeek) {
			t.Errorf("PhaseForWeek(%d) error = %v, want ErrInvalidWeek", w, err)
		}
	}
}

func TestForDate_Examples(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		wantWeek  int
		wantPhase Phase
		wantTitle string
		wantBody  string
	}{
		{
			name:      "week 8",
			date:      date(2024, time.February, 19),
			wantWeek:  8,
			wantPhase: PhaseDeload,
			wantTitle: "Deload next week",
			wantBody:  "Tomorrow starts your Deload week! Take it easy.",
		},
		{
			name:      "week 9",
			date:      date(2024, time.February, 26),
			wantWeek:  9,
			wantPhase: PhaseLoad,
			wantTitle: "Load next week",
			wantBody:  "Tomorrow starts your Load week! Time to push.",
		},
		{
			name:      "week 12",
			date:      date(2024, time.March, 18),
			wantWeek:  12,
			wantPhase: PhaseDeload,
			wantTitle: "Deload next week",
			wantBody:  "Tomorrow starts your Deload week! Take it easy.",
		},
		{
			name:      "week 1",
			date:      date(2024, time.January, 1),
			wantWeek:  1,
			wantPhase: PhaseLoad,
			wantTitle: "Load next week",
			wantBody:  "Tomorrow starts your Load week! Time to push.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForDate(tt.date)
			if err != nil {
				t.Fatalf("ForDate() error: %v", err)
			}
			if got.ISOWeek != tt.wantWeek {
				t.Errorf("ISOWeek = %d, want %d", got.ISOWeek, tt.wantWeek)
			}
			if got.Phase != tt.wantPhase {
				t.Errorf("Phase = %s, want %s", got.Phase, tt.wantPhase)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
		})
	}
}

func TestForDate_YearBoundary(t *testing.T) {
	// 2020 has 53 ISO weeks; 2021-01-03 still belongs to 2020-W53.
	cases := []struct {
		date     time.Time
		wantYear int
		wantWeek int
	}{
		{date(2020, time.December, 31), 2020, 53},
		{date(2021, time.January, 3), 2020, 53},
		{date(2021, time.January, 4), 2021, 1},
	}
	for _, c := range cases {
		got, err := ForDate(c.date)
		if err != nil {
			t.Fatalf("ForDate(%s) error: %v", c.date.Format(DateLayout), err)
		}
		if got.ISOYear != c.wantYear || got.ISOWeek != c.wantWeek {
			t.Errorf("ForDate(%s) = %d-W%d, want %d-W%d", c.date.Format(DateLayout), got.ISOYear, got.ISOWeek, c.wantYear, c.wantWeek)
		}
		if got.Phase != PhaseLoad {
			t.Errorf("ForDate(%s) phase = %s, want LOAD", c.date.Format(DateLayout), got.Phase)
		}
	}
}

func TestForDate_TotalOverSeveralYears(t *testing.T) {
	start := date(2019, time.December, 1)
	for d := start; d.Before(date(2027, time.February, 1)); d = d.AddDate(0, 0, 1) {
		got, err := ForDate(d)
		if err != nil {
			t.Fatalf("ForDate(%s) error: %v", d.Format(DateLayout), err)
		}
		_, week := d.ISOWeek()
		if (got.Phase == PhaseDeload) != (week%4 == 0) {
			t.Fatalf("ForDate(%s) week %d phase %s breaks the deload rule", d.Format(DateLayout), week, got.Phase)
		}
	}
}

func TestForDate_Idempotent(t *testing.T) {
	d := time.Date(2025, time.June, 11, 15, 30, 0, 0, time.UTC)
	first, err := ForDate(d)
	if err != nil {
		t.Fatalf("ForDate() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ForDate(d)
		if err != nil {
			t.Fatalf("ForDate() error: %v", err)
		}
		if again != first {
			t.Fatalf("ForDate() call %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestForDate_ZeroDate(t *testing.T) {
	if _, err := ForDate(time.Time{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ForDate(zero) error = %v, want ErrInvalidDate", err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-03-18 ", nil)
	if err != nil {
		t.Fatalf("ParseDate() error: %v", err)
	}
	if !got.Equal(date(2024, time.March, 18)) {
		t.Errorf("ParseDate() = %v", got)
	}

	for _, in := range []string{"", "2024-13-01", "18/03/2024", "tomorrow"} {
		if _, err := ParseDate(in, nil); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestTomorrow(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, time.March, 17, 10, 0, 0, 0, time.UTC), date(2024, time.March, 18)},
		{time.Date(2020, time.December, 31, 23, 59, 0, 0, time.UTC), date(2021, time.January, 1)},
		{time.Date(2024, time.February, 28, 8, 0, 0, 0, time.UTC), date(2024, time.February, 29)},
		{time.Date(2024, time.March, 17, 22, 0, 0, 0, loc), time.Date(2024, time.March, 18, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := Tomorrow(tt.now); !got.Equal(tt.want) {
			t.Errorf("Tomorrow(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestUpcoming(t *testing.T) {
	// Wednesday of ISO week 11, 2024.
	got, err := Upcoming(date(2024, time.March, 13), 3)
	if err != nil {
		t.Fatalf("Upcoming() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Upcoming() len = %d, want 3", len(got))
	}
	wantWeeks := []int{11, 12, 13}
	for i, r := range got {
		if r.ISOWeek != wantWeeks[i] {
			t.Errorf("Upcoming()[%d].ISOWeek = %d, want %d", i, r.ISOWeek, wantWeeks[i])
		}
		if r.Date.Weekday() != time.Monday {
			t.Errorf("Upcoming()[%d].Date = %s, want a Monday", i, r.Date.Weekday())
		}
	}
	if got[1].Phase != PhaseDeload {
		t.Errorf("week 12 phase = %s, want DELOAD", got[1].Phase)
	}

	if _, err := Upcoming(date(2024, time.March, 13), 0); err == nil {
		t.Error("Upcoming(weeks=0) expected error")
	}
}

func TestPhaseDisplayName(t *testing.T) {
	if PhaseLoad.DisplayName() != "Load" || PhaseDeload.DisplayName() != "Deload" {
		t.Errorf("DisplayName() = %q/%q", PhaseLoad.DisplayName(), PhaseDeload.DisplayName())
	}
}
