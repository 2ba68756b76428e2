package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"

	"github.com/jmoiron/sqlx"
)

// testDB opens a migrated in-memory SQLite database.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newDispatch(t *testing.T, target time.Time, status dispatch.Status, createdAt time.Time) *dispatch.Dispatch {
	t.Helper()
	r, err := cycle.ForDate(target)
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}
	return &dispatch.Dispatch{
		TargetDate: target,
		ISOYear:    r.ISOYear,
		ISOWeek:    r.ISOWeek,
		Phase:      r.Phase,
		Title:      r.Title,
		Body:       r.Body,
		Status:     status,
		ProviderID: "notif-1",
		CreatedAt:  createdAt,
	}
}

func TestDispatchRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewDispatchRepository(testDB(t))

	target := time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.March, 17, 9, 0, 0, 0, time.UTC)
	d := newDispatch(t, target, dispatch.StatusSent, created)
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if d.ID == 0 {
		t.Fatal("Create() did not set ID")
	}

	got, err := repo.GetLatestByTargetDateAndStatus(ctx, target, dispatch.StatusSent)
	if err != nil {
		t.Fatalf("GetLatestByTargetDateAndStatus() error: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("ID = %d, want %d", got.ID, d.ID)
	}
	if !got.TargetDate.Equal(target) {
		t.Errorf("TargetDate = %v, want %v", got.TargetDate, target)
	}
	if got.Phase != cycle.PhaseDeload || got.ISOWeek != 12 {
		t.Errorf("Phase/Week = %s/%d, want DELOAD/12", got.Phase, got.ISOWeek)
	}
	if got.Title != "Deload next week" {
		t.Errorf("Title = %q", got.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestDispatchRepository_GetFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewDispatchRepository(testDB(t))

	target := time.Date(2024, time.March, 19, 0, 0, 0, 0, time.UTC)
	failed := newDispatch(t, target, dispatch.StatusFailed, time.Now())
	failed.ErrorMessage = "provider down"
	if err := repo.Create(ctx, failed); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	_, err := repo.GetLatestByTargetDateAndStatus(ctx, target, dispatch.StatusSent)
	if !errors.Is(err, ErrDispatchNotFound) {
		t.Fatalf("error = %v, want ErrDispatchNotFound", err)
	}

	got, err := repo.GetLatestByTargetDateAndStatus(ctx, target, dispatch.StatusFailed)
	if err != nil {
		t.Fatalf("GetLatestByTargetDateAndStatus(FAILED) error: %v", err)
	}
	if got.ErrorMessage != "provider down" {
		t.Errorf("ErrorMessage = %q", got.ErrorMessage)
	}
}

func TestDispatchRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewDispatchRepository(testDB(t))

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		d := newDispatch(t, base.AddDate(0, 0, i+1), dispatch.StatusSent, base.AddDate(0, 0, i))
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create() #%d error: %v", i, err)
		}
	}

	got, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListRecent() len = %d, want 3", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) || !got[1].CreatedAt.After(got[2].CreatedAt) {
		t.Errorf("ListRecent() not ordered newest first: %v, %v, %v", got[0].CreatedAt, got[1].CreatedAt, got[2].CreatedAt)
	}
	if want := cycle.StartOfDay(base.AddDate(0, 0, 5)); !got[0].TargetDate.Equal(want) {
		t.Errorf("newest TargetDate = %v, want %v", got[0].TargetDate, want)
	}
}

func TestDispatchRepository_CreateKeepsOnlyTheDay(t *testing.T) {
	ctx := context.Background()
	repo := NewDispatchRepository(testDB(t))

	target := time.Date(2024, time.March, 18, 21, 30, 0, 0, time.UTC)
	d := newDispatch(t, target, dispatch.StatusSent, time.Now())
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	midnight := time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)
	if !d.TargetDate.Equal(midnight) {
		t.Errorf("TargetDate after Create = %v, want %v", d.TargetDate, midnight)
	}

	got, err := repo.GetLatestByTargetDateAndStatus(ctx, target, dispatch.StatusSent)
	if err != nil {
		t.Fatalf("GetLatestByTargetDateAndStatus() error: %v", err)
	}
	if !got.TargetDate.Equal(midnight) {
		t.Errorf("stored TargetDate = %v, want %v", got.TargetDate, midnight)
	}

	if err := repo.Create(ctx, &dispatch.Dispatch{Status: dispatch.StatusSent}); !errors.Is(err, cycle.ErrInvalidDate) {
		t.Errorf("Create() with zero TargetDate error = %v, want ErrInvalidDate", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{DB: sqlx.NewDb(&sql.DB{}, "postgres"), dialect: DialectPostgres}
	if got := pg.Rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres Rebind = %q", got)
	}
	lite := &DB{DB: sqlx.NewDb(&sql.DB{}, "sqlite"), dialect: DialectSQLite}
	if got := lite.Rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite Rebind = %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"postgres": DialectPostgres, "PostgreSQL": DialectPostgres, "sqlite": DialectSQLite, "sqlite3": DialectSQLite} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("ParseDialect(mysql) expected error")
	}
}
