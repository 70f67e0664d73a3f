package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ wxrport.Exporter = (*Archive)(nil)

// Run is one archived export.
type Run struct {
	ID        string
	Origin    string
	ItemCount int
	CreatedAt time.Time
}

// Archive stores every export as a run with its items, for inspection.
// Runs are append-only; nothing reads them back during a crawl.
type Archive struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewArchive creates a new Archive.
func NewArchive(db *DB) *Archive {
	return &Archive{db: db, Now: time.Now}
}

// Name returns "sqlite".
func (a *Archive) Name() string {
	return "sqlite"
}

// Export stores the export as a new run in a single transaction.
func (a *Archive) Export(ctx context.Context, export *wxrport.Export) error {
	_, err := a.CreateRun(ctx, export)
	return err
}

// CreateRun stores the export and returns the new run.
func (a *Archive) CreateRun(ctx context.Context, export *wxrport.Export) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Origin:    export.Channel.Link,
		ItemCount: len(export.Items),
		CreatedAt: a.Now().UTC().Truncate(time.Second),
	}

	tx, err := a.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, origin, item_count, created_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Origin, run.ItemCount, run.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	for i, item := range export.Items {
		if err := insertItem(ctx, tx, run.ID, i, item); err != nil {
			return nil, fmt.Errorf("inserting %s: %w", item.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, runID string, position int, item *wxrport.CrawlItem) error {
	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO items (id, run_id, position, url, slug, title, post_type, published_at, body_html, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, runID, position, item.URL, item.Slug, item.Title, string(item.PostType),
		item.Date.UTC().Format(time.RFC3339), item.BodyHTML, item.ContentHash); err != nil {
		return err
	}

	for i, name := range item.Categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_categories (item_id, position, name) VALUES (?, ?, ?)",
			id, i, name); err != nil {
			return err
		}
	}
	for i, u := range item.Images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO item_images (item_id, position, url) VALUES (?, ?, ?)",
			id, i, u); err != nil {
			return err
		}
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (a *Archive) FindRunByID(ctx context.Context, id string) (*Run, error) {
	var run Run
	var createdAt string

	err := a.db.QueryRowContext(ctx, `
		SELECT id, origin, item_count, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Origin, &run.ItemCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, wxrport.Errorf(wxrport.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRuns returns archived runs, newest first.
func (a *Archive) FindRuns(ctx context.Context, limit, offset int) ([]*Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, origin, item_count, created_at FROM runs ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, limit, offset)

	rows, err := a.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &run.Origin, &run.ItemCount, &createdAt); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FindItems returns the items of a run in discovery order.
func (a *Archive) FindItems(ctx context.Context, runID string, limit, offset int) ([]*wxrport.CrawlItem, error) {
	var query strings.Builder
	args := []any{runID}

	query.WriteString(`SELECT id, url, slug, title, post_type, published_at, body_html, content_hash
		FROM items WHERE run_id = ? ORDER BY position ASC`)
	appendPagination(&query, &args, limit, offset)

	rows, err := a.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	var items []*wxrport.CrawlItem
	for rows.Next() {
		var item wxrport.CrawlItem
		var id, postType, publishedAt string
		if err := rows.Scan(&id, &item.URL, &item.Slug, &item.Title, &postType,
			&publishedAt, &item.BodyHTML, &item.ContentHash); err != nil {
			return nil, err
		}
		item.PostType = wxrport.PostType(postType)
		if item.Date, err = parseRFC3339(publishedAt, "published_at"); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		if items[i].Categories, err = a.findStrings(ctx,
			"SELECT name FROM item_categories WHERE item_id = ? ORDER BY position", id); err != nil {
			return nil, err
		}
		if items[i].Images, err = a.findStrings(ctx,
			"SELECT url FROM item_images WHERE item_id = ? ORDER BY position", id); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// DeleteRun permanently removes a run and its items.
func (a *Archive) DeleteRun(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return wxrport.Errorf(wxrport.ENOTFOUND, "run not found")
	}
	return nil
}

func (a *Archive) findStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
