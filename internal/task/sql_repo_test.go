package task

import (
	"path/filepath"
	"testing"

	"tasktrove/internal/model"

	_ "modernc.org/sqlite"
)

func sqliteDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.ToSlash(filepath.Join(t.TempDir(), "tasks.db")) + "?mode=rwc&_pragma=busy_timeout(5000)"
}

func openSQLRepo(t *testing.T, dsn string) *SQLRepo {
	t.Helper()
	repo, err := OpenSQL("sqlite", dsn)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLRepoCreateGetRoundTrips(t *testing.T) {
	repo := openSQLRepo(t, sqliteDSN(t))

	due := "2024-02-29"
	rule := "FREQ=MONTHLY;INTERVAL=2"
	created, err := repo.Create(model.Task{
		Title:      "Pay rent",
		Priority:   model.PriorityHigh,
		ProjectID:  "proj_home",
		SectionID:  "sect_bills",
		Labels:     []model.LabelID{"lbl_money", "lbl_home"},
		DueDate:    &due,
		Recurrence: &rule,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected a generated id")
	}

	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Pay rent" || got.Priority != model.PriorityHigh {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.DueDate == nil || *got.DueDate != due {
		t.Fatalf("DueDate = %v, want %s", got.DueDate, due)
	}
	if got.Recurrence == nil || *got.Recurrence != rule {
		t.Fatalf("Recurrence = %v, want %s", got.Recurrence, rule)
	}
	if len(got.Labels) != 2 || got.Labels[0] != "lbl_money" || got.Labels[1] != "lbl_home" {
		t.Fatalf("Labels = %v", got.Labels)
	}
	if got.RecurringMode != model.RecurringModeDueDate {
		t.Fatalf("RecurringMode = %q, want default due_date", got.RecurringMode)
	}

	if _, err := repo.Get("task_missing"); err != ErrNotFound {
		t.Fatalf("Get unknown = %v, want ErrNotFound", err)
	}
}

func TestSQLRepoPatchSemantics(t *testing.T) {
	repo := openSQLRepo(t, sqliteDSN(t))

	due := "2024-05-01"
	created, err := repo.Create(model.Task{Title: "Trim hedge", DueDate: &due})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Trim the hedge"
	updated, err := repo.Update(created.ID, Patch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("Title = %q, want %q", updated.Title, title)
	}
	if updated.DueDate == nil || *updated.DueDate != due {
		t.Fatalf("untouched DueDate changed: %v", updated.DueDate)
	}

	// Empty string clears the pointer field, nil leaves it alone.
	empty := ""
	cleared, err := repo.Update(created.ID, Patch{DueDate: &empty})
	if err != nil {
		t.Fatalf("Update clear: %v", err)
	}
	if cleared.DueDate != nil {
		t.Fatalf("DueDate = %v, want nil after empty-string patch", cleared.DueDate)
	}
	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DueDate != nil {
		t.Fatalf("persisted DueDate = %v, want nil", got.DueDate)
	}
}

func TestSQLRepoListFiltersAndSorts(t *testing.T) {
	repo := openSQLRepo(t, sqliteDSN(t))

	early := "2024-01-05"
	late := "2024-06-05"
	if _, err := repo.Create(model.Task{Title: "later", DueDate: &late}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(model.Task{Title: "sooner", DueDate: &early}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	doneTask, err := repo.Create(model.Task{Title: "finished"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	doneFlag := true
	if _, err := repo.Update(doneTask.ID, Patch{Done: &doneFlag}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	pending, err := repo.List(ListFilter{Status: "pending"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d tasks, want 2", len(pending))
	}
	if pending[0].Title != "sooner" || pending[1].Title != "later" {
		t.Fatalf("order = [%s, %s], want dated ascending", pending[0].Title, pending[1].Title)
	}

	done, err := repo.List(ListFilter{Status: "done"})
	if err != nil {
		t.Fatalf("List done: %v", err)
	}
	if len(done) != 1 || done[0].Title != "finished" {
		t.Fatalf("done = %+v", done)
	}
}

func TestSQLRepoForUserScopesRows(t *testing.T) {
	repo := openSQLRepo(t, sqliteDSN(t))
	alice := repo.ForUser("usr_alice")
	bob := repo.ForUser("usr_bob")

	created, err := alice.Create(model.Task{Title: "Alice only"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := bob.Get(created.ID); err != ErrNotFound {
		t.Fatalf("cross-user Get = %v, want ErrNotFound", err)
	}
	if err := bob.Delete(created.ID); err != ErrNotFound {
		t.Fatalf("cross-user Delete = %v, want ErrNotFound", err)
	}

	bobTasks, err := bob.List(ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Fatalf("bob sees %d tasks, want 0", len(bobTasks))
	}

	aliceTasks, err := alice.List(ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(aliceTasks) != 1 {
		t.Fatalf("alice sees %d tasks, want 1", len(aliceTasks))
	}
}

func TestSQLRepoSchemaBootstrapIsIdempotent(t *testing.T) {
	dsn := sqliteDSN(t)

	first, err := OpenSQL("sqlite", dsn)
	if err != nil {
		t.Fatalf("first OpenSQL: %v", err)
	}
	created, err := first.Create(model.Task{Title: "survives reopen"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening runs ensureSchema again against the populated file.
	second, err := OpenSQL("sqlite", dsn)
	if err != nil {
		t.Fatalf("second OpenSQL: %v", err)
	}
	defer second.Close()

	got, err := second.Get(created.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Title != "survives reopen" {
		t.Fatalf("Title = %q", got.Title)
	}
}
