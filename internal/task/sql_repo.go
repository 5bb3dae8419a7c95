package task

import (
	"database/sql"
	"strings"
	"time"

	"tasktrove/internal/model"
)

// SQLRepo stores tasks in a relational database through database/sql.
// It works against both the sqlite and postgres drivers: the schema and
// queries stick to the portable subset ($N placeholders, TEXT columns,
// RFC 3339 timestamps).
//
// Ordered display lives in the project/section lists, so rows carry no
// order column.
type SQLRepo struct {
	db     *sql.DB
	userID string
}

// OpenSQL opens (or reuses) a database handle and ensures the schema.
// driver is "sqlite" or "postgres"; the caller imports the matching
// driver package.
func OpenSQL(driver, dsn string) (*SQLRepo, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// modernc sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	r := &SQLRepo{db: db, userID: "default"}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLRepo) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLRepo) ForUser(userID string) *SQLRepo {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "default"
	}
	return &SQLRepo{db: r.db, userID: userID}
}

func (r *SQLRepo) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	done INTEGER NOT NULL DEFAULT 0,
	priority INTEGER NOT NULL DEFAULT 4,
	project_id TEXT NOT NULL DEFAULT '',
	section_id TEXT NOT NULL DEFAULT '',
	labels TEXT NOT NULL DEFAULT '',
	due_date TEXT DEFAULT NULL,
	recurrence TEXT DEFAULT NULL,
	recurring_mode TEXT NOT NULL DEFAULT 'due_date',
	completed_at TEXT DEFAULT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	if _, err := r.db.Exec(ddl); err != nil {
		return err
	}
	_, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS tasks_user_idx ON tasks (user_id);`)
	return err
}

const taskColumns = `id, title, description, done, priority, project_id, section_id, labels, due_date, recurrence, recurring_mode, completed_at, created_at, updated_at`

func joinLabels(labels []model.LabelID) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			parts = append(parts, string(l))
		}
	}
	return strings.Join(parts, ",")
}

func splitLabels(s string) []model.LabelID {
	if s == "" {
		return []model.LabelID{}
	}
	parts := strings.Split(s, ",")
	out := make([]model.LabelID, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, model.LabelID(p))
		}
	}
	return out
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC().Format(time.RFC3339Nano)
}

func scanTask(scan func(dest ...any) error) (model.Task, error) {
	var (
		t            model.Task
		doneInt      int
		priority     int
		projectID    string
		sectionID    string
		labels       string
		due          sql.NullString
		recurrence   sql.NullString
		mode         string
		completedStr sql.NullString
		createdStr   string
		updatedStr   string
	)
	err := scan(&t.ID, &t.Title, &t.Description, &doneInt, &priority, &projectID, &sectionID, &labels, &due, &recurrence, &mode, &completedStr, &createdStr, &updatedStr)
	if err != nil {
		return model.Task{}, err
	}

	t.Done = doneInt == 1
	t.Priority = model.Priority(priority)
	t.ProjectID = model.ProjectID(projectID)
	t.SectionID = model.SectionID(sectionID)
	t.Labels = splitLabels(labels)
	t.RecurringMode = model.RecurringMode(mode)
	if due.Valid && due.String != "" {
		v := due.String
		t.DueDate = &v
	}
	if recurrence.Valid && recurrence.String != "" {
		v := recurrence.String
		t.Recurrence = &v
	}
	if completedStr.Valid && completedStr.String != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, completedStr.String); err == nil {
			t.CompletedAt = &parsed
		}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
		t.CreatedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, updatedStr); err == nil {
		t.UpdatedAt = parsed
	}
	normalizeTask(&t)
	return t, nil
}

func (r *SQLRepo) writeTask(t model.Task, insert bool) error {
	doneInt := 0
	if t.Done {
		doneInt = 1
	}

	if insert {
		_, err := r.db.Exec(
			`INSERT INTO tasks (id, user_id, title, description, done, priority, project_id, section_id, labels, due_date, recurrence, recurring_mode, completed_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			string(t.ID), r.userID, t.Title, t.Description, doneInt, int(t.Priority),
			string(t.ProjectID), string(t.SectionID), joinLabels(t.Labels),
			nullableString(t.DueDate), nullableString(t.Recurrence), string(t.RecurringMode),
			nullableTime(t.CompletedAt),
			t.CreatedAt.UTC().Format(time.RFC3339Nano), t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	}

	_, err := r.db.Exec(
		`UPDATE tasks SET title=$1, description=$2, done=$3, priority=$4, project_id=$5, section_id=$6, labels=$7, due_date=$8, recurrence=$9, recurring_mode=$10, completed_at=$11, updated_at=$12
		 WHERE id=$13 AND user_id=$14`,
		t.Title, t.Description, doneInt, int(t.Priority),
		string(t.ProjectID), string(t.SectionID), joinLabels(t.Labels),
		nullableString(t.DueDate), nullableString(t.Recurrence), string(t.RecurringMode),
		nullableTime(t.CompletedAt), t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(t.ID), r.userID,
	)
	return err
}

func (r *SQLRepo) Create(t model.Task) (model.Task, error) {
	now := time.Now()
	t.ID = newID()
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	if err := r.writeTask(t, true); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLRepo) Get(id model.TaskID) (model.Task, error) {
	row := r.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id=$1 AND user_id=$2`,
		string(id), r.userID,
	)
	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	t, err := r.Get(id)
	if err != nil {
		return model.Task{}, err
	}

	applyPatch(&t, p)
	t.UpdatedAt = time.Now()
	normalizeTask(&t)

	if err := r.writeTask(t, false); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLRepo) Delete(id model.TaskID) error {
	res, err := r.db.Exec(`DELETE FROM tasks WHERE id=$1 AND user_id=$2`, string(id), r.userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) List(filter ListFilter) ([]model.Task, error) {
	rows, err := r.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE user_id=$1`,
		r.userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	today := time.Now().Format("2006-01-02")

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		// Status filtering shares the in-memory predicate so every
		// backend agrees on what "overdue" means.
		if matchesFilter(t, filter, today) {
			out = append(out, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}
