package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-terminal-backend/internal/domain"
	"github.com/tbourn/go-terminal-backend/internal/filter"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "terminals.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedTerminal(t *testing.T, db *gorm.DB, tid string, branch domain.Branch, dispatched time.Time) *domain.Terminal {
	t.Helper()
	rec, err := CreateTerminal(context.Background(), db, &domain.Terminal{
		Name:             "Shop " + tid,
		TerminalID:       tid,
		SerialNumber:     "SN" + tid,
		LineSerialNumber: "8926307001234567",
		Type:             domain.TypeIPOS,
		Branch:           branch,
		DispatchDate:     dispatched,
	})
	if err != nil {
		t.Fatalf("CreateTerminal(%s): %v", tid, err)
	}
	return rec
}

func TestCreateTerminal_AssignsID(t *testing.T) {
	db := testDB(t)
	rec := seedTerminal(t, db, "NBS00001", domain.BranchMutare, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	if rec.ID == "" {
		t.Fatalf("ID not assigned")
	}
	if rec.IsReturned {
		t.Fatalf("fresh record must be active")
	}

	got, err := GetTerminal(context.Background(), db, rec.ID)
	if err != nil {
		t.Fatalf("GetTerminal: %v", err)
	}
	if got.TerminalID != "NBS00001" || got.Branch != domain.BranchMutare {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateTerminal_DuplicateBusinessID(t *testing.T) {
	db := testDB(t)
	seedTerminal(t, db, "NBS00001", domain.BranchMutare, time.Now().UTC())

	_, err := CreateTerminal(context.Background(), db, &domain.Terminal{
		Name:             "Other shop",
		TerminalID:       "NBS00001",
		SerialNumber:     "SN99999",
		LineSerialNumber: "8926307009999999",
		Type:             domain.TypePAXS20,
		Branch:           domain.BranchGweru,
		DispatchDate:     time.Now().UTC(),
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestGetTerminal_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := GetTerminal(context.Background(), db, "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMarkReturnedAndClearReturn(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	rec := seedTerminal(t, db, "NBS00002", domain.BranchCIB, time.Now().UTC().Add(-24*time.Hour))

	at := time.Now().UTC().Truncate(time.Second)
	if err := MarkReturned(ctx, db, rec.ID, "damaged keypad", at); err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}

	got, err := GetTerminal(ctx, db, rec.ID)
	if err != nil {
		t.Fatalf("GetTerminal: %v", err)
	}
	if !got.IsReturned || got.ReturnDate == nil || got.ReturnReason == nil {
		t.Fatalf("return fields not set: %+v", got)
	}
	if *got.ReturnReason != "damaged keypad" {
		t.Fatalf("reason = %q", *got.ReturnReason)
	}

	// Second return attempt hits zero rows: the WHERE clause guards the state.
	if err := MarkReturned(ctx, db, rec.ID, "again", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("returning a returned terminal: want ErrNotFound, got %v", err)
	}

	if err := ClearReturn(ctx, db, rec.ID); err != nil {
		t.Fatalf("ClearReturn: %v", err)
	}
	got, _ = GetTerminal(ctx, db, rec.ID)
	if got.IsReturned || got.ReturnDate != nil || got.ReturnReason != nil {
		t.Fatalf("return fields not cleared: %+v", got)
	}

	// Reactivating an active terminal also affects zero rows.
	if err := ClearReturn(ctx, db, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("clearing an active terminal: want ErrNotFound, got %v", err)
	}
}

func TestDeleteTerminal(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	rec := seedTerminal(t, db, "NBS00003", domain.BranchSSC, time.Now().UTC())

	if err := DeleteTerminal(ctx, db, rec.ID); err != nil {
		t.Fatalf("DeleteTerminal: %v", err)
	}
	if err := DeleteTerminal(ctx, db, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestDeleteAllTerminals(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Empty table: no-op, no error.
	n, err := DeleteAllTerminals(ctx, db)
	if err != nil || n != 0 {
		t.Fatalf("delete-all on empty table: n=%d err=%v", n, err)
	}

	seedTerminal(t, db, "NBS00004", domain.BranchGweru, time.Now().UTC())
	seedTerminal(t, db, "NBS00005", domain.BranchGweru, time.Now().UTC())

	n, err = DeleteAllTerminals(ctx, db)
	if err != nil || n != 2 {
		t.Fatalf("delete-all: n=%d err=%v", n, err)
	}
	total, _ := CountTerminals(ctx, db, filter.Criteria{})
	if total != 0 {
		t.Fatalf("table not empty after delete-all: %d", total)
	}
}

func TestListTerminals_FilterPushdown(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	a := seedTerminal(t, db, "NBS00010", domain.BranchGweru, base)
	seedTerminal(t, db, "NBS00011", domain.BranchGweru, base.AddDate(0, 0, 5))
	seedTerminal(t, db, "NBS00012", domain.BranchMutare, base.AddDate(0, 0, 9))
	if err := MarkReturned(ctx, db, a.ID, "end of promo", time.Now().UTC()); err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}

	gweru := domain.BranchGweru
	got, err := ListTerminals(ctx, db, filter.Criteria{Branch: &gweru})
	if err != nil || len(got) != 2 {
		t.Fatalf("branch filter: n=%d err=%v", len(got), err)
	}

	no := false
	got, err = ListTerminals(ctx, db, filter.Criteria{Branch: &gweru, IsReturned: &no})
	if err != nil || len(got) != 1 || got[0].TerminalID != "NBS00011" {
		t.Fatalf("branch+active filter: %+v err=%v", got, err)
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 9)
	got, err = ListTerminals(ctx, db, filter.Criteria{StartDate: &from, EndDate: &to})
	if err != nil || len(got) != 2 {
		t.Fatalf("date range filter: n=%d err=%v", len(got), err)
	}

	// Search term matches name, terminal_id, or serial_number, case-insensitive.
	got, err = ListTerminals(ctx, db, filter.Criteria{SearchTerm: "nbs00012"})
	if err != nil || len(got) != 1 || got[0].Branch != domain.BranchMutare {
		t.Fatalf("search filter: %+v err=%v", got, err)
	}
	got, err = ListTerminals(ctx, db, filter.Criteria{SearchTerm: "shop NBS000"})
	if err != nil || len(got) != 3 {
		t.Fatalf("name search: n=%d err=%v", len(got), err)
	}
}

func TestListTerminals_SearchEscapesLikeMetacharacters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	pct, err := CreateTerminal(ctx, db, &domain.Terminal{
		Name:             "100% Wholesale",
		TerminalID:       "NBS00050",
		SerialNumber:     "SN000050",
		LineSerialNumber: "8926307001234567",
		Type:             domain.TypeIPOS,
		Branch:           domain.BranchGweru,
		DispatchDate:     base,
	})
	if err != nil {
		t.Fatalf("CreateTerminal: %v", err)
	}
	seedTerminal(t, db, "NBS00051", domain.BranchGweru, base)

	// "%" must match literally, not as a LIKE wildcard. An unescaped
	// pattern would also return the second record.
	got, err := ListTerminals(ctx, db, filter.Criteria{SearchTerm: "100%"})
	if err != nil || len(got) != 1 || got[0].ID != pct.ID {
		t.Fatalf("literal %% search: n=%d err=%v", len(got), err)
	}

	// Same story for "_", which would otherwise match any single character.
	got, err = ListTerminals(ctx, db, filter.Criteria{SearchTerm: "0_ wholesale"})
	if err != nil || len(got) != 0 {
		t.Fatalf("literal _ search: n=%d err=%v", len(got), err)
	}
}

func TestListTerminalsPage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedTerminal(t, db, "NBS0002"+string(rune('0'+i)), domain.BranchCIB, base.AddDate(0, 0, i))
	}

	page, err := ListTerminalsPage(ctx, db, filter.Criteria{}, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("page 1: n=%d err=%v", len(page), err)
	}
	// Ordered by dispatch date descending.
	if page[0].DispatchDate.Before(page[1].DispatchDate) {
		t.Fatalf("expected descending dispatch order")
	}

	last, err := ListTerminalsPage(ctx, db, filter.Criteria{}, 4, 2)
	if err != nil || len(last) != 1 {
		t.Fatalf("last page: n=%d err=%v", len(last), err)
	}
}

func TestTerminalTotalsAndStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	totals, err := TerminalTotals(ctx, db)
	if err != nil || totals.Total != 0 {
		t.Fatalf("empty totals: %+v err=%v", totals, err)
	}
	count, maxTS, err := TerminalsStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d ts=%v err=%v", count, maxTS, err)
	}

	a := seedTerminal(t, db, "NBS00030", domain.BranchSamora, time.Now().UTC())
	seedTerminal(t, db, "NBS00031", domain.BranchSamora, time.Now().UTC())
	if err := MarkReturned(ctx, db, a.ID, "branch closed", time.Now().UTC()); err != nil {
		t.Fatalf("MarkReturned: %v", err)
	}

	totals, err = TerminalTotals(ctx, db)
	if err != nil {
		t.Fatalf("TerminalTotals: %v", err)
	}
	if totals.Total != 2 || totals.Active != 1 || totals.Returned != 1 {
		t.Fatalf("totals = %+v", totals)
	}

	count, maxTS, err = TerminalsStats(ctx, db)
	if err != nil || count != 2 || maxTS == nil {
		t.Fatalf("stats: count=%d ts=%v err=%v", count, maxTS, err)
	}
}

func TestTerminalIDTaken(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedTerminal(t, db, "NBS00040", domain.BranchBindura, time.Now().UTC())

	taken, err := TerminalIDTaken(ctx, db, "NBS00040")
	if err != nil || !taken {
		t.Fatalf("taken=%v err=%v", taken, err)
	}
	taken, err = TerminalIDTaken(ctx, db, "NBS00041")
	if err != nil || taken {
		t.Fatalf("free id reported taken: %v err=%v", taken, err)
	}
}
