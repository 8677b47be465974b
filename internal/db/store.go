package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/chriserin/specoutline/internal/parser"
)

// NodeRow is one indexed node joined with its file.
type NodeRow struct {
	ID       int64
	FilePath string
	Kind     parser.Kind
	Name     string
	Line     int
	Skipped  bool
	ParentID sql.NullInt64
}

// Filter narrows ListNodes.
type Filter struct {
	Kind        parser.Kind
	SkippedOnly bool
	FilePath    string
}

// UpsertFile returns the id of the file record for path, creating it when
// missing. created reports whether a new record was inserted.
func UpsertFile(db *sql.DB, path string) (id int64, created bool, err error) {
	err = db.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("querying %s: %w", path, err)
	}

	res, err := db.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
	if err != nil {
		return 0, false, fmt.Errorf("inserting %s: %w", path, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading id for %s: %w", path, err)
	}
	return id, true, nil
}

// ReplaceNodes swaps the stored forest of a file for roots.
func ReplaceNodes(db *sql.DB, fileID int64, roots []*parser.Node) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning node update: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM nodes WHERE file_id = ?`, fileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing nodes: %w", err)
	}

	rows := parser.Flatten(roots)
	ids := make([]int64, len(rows))
	for i, r := range rows {
		var parentID sql.NullInt64
		if r.Parent >= 0 {
			parentID = sql.NullInt64{Int64: ids[r.Parent], Valid: true}
		}
		res, err := tx.Exec(
			`INSERT INTO nodes (file_id, parent_id, position, kind, name, line, skipped) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fileID, parentID, r.Path[len(r.Path)-1], string(r.Node.Kind), r.Node.Name, r.Node.Line, r.Node.IsSkipped,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting node at line %d: %w", r.Node.Line, err)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			tx.Rollback()
			return fmt.Errorf("reading node id: %w", err)
		}
	}

	if _, err := tx.Exec(`UPDATE files SET parse_error = '', updated_at = datetime('now') WHERE id = ?`, fileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("touching file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing nodes: %w", err)
	}
	return nil
}

// SetParseError records the last parse failure of a file and drops its
// nodes, matching what an outline shows for a failed parse.
func SetParseError(db *sql.DB, fileID int64, msg string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning parse error update: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE file_id = ?`, fileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if _, err := tx.Exec(`UPDATE files SET parse_error = ?, updated_at = datetime('now') WHERE id = ?`, msg, fileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("recording parse error: %w", err)
	}
	return tx.Commit()
}

// ListNodes returns indexed nodes ordered by file path and line.
func ListNodes(db *sql.DB, f Filter) ([]NodeRow, error) {
	query := `
		SELECT n.id, f.file_path, n.kind, n.name, n.line, n.skipped, n.parent_id
		FROM nodes n
		JOIN files f ON n.file_id = f.id
		WHERE 1 = 1`
	var args []any
	if f.Kind != "" {
		query += ` AND n.kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.SkippedOnly {
		query += ` AND n.skipped = 1`
	}
	if f.FilePath != "" {
		query += ` AND f.file_path = ?`
		args = append(args, f.FilePath)
	}
	query += ` ORDER BY f.file_path, n.line, n.id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var result []NodeRow
	for rows.Next() {
		var r NodeRow
		var kind string
		if err := rows.Scan(&r.ID, &r.FilePath, &kind, &r.Name, &r.Line, &r.Skipped, &r.ParentID); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		r.Kind = parser.Kind(kind)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return result, nil
}

// KindCount is the number of indexed nodes of one kind.
type KindCount struct {
	Kind  parser.Kind
	Count int
}

// KindCounts returns node totals per kind, largest first.
func KindCounts(db *sql.DB) ([]KindCount, error) {
	rows, err := db.Query(`SELECT kind, COUNT(*) AS cnt FROM nodes GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return nil, fmt.Errorf("querying kind counts: %w", err)
	}
	defer rows.Close()

	var result []KindCount
	for rows.Next() {
		var kind string
		var kc KindCount
		if err := rows.Scan(&kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scanning kind count: %w", err)
		}
		kc.Kind = parser.Kind(kind)
		result = append(result, kc)
	}
	return result, rows.Err()
}

// FileCount returns the number of tracked files.
func FileCount(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}

// FailedFile is a tracked file whose last parse failed.
type FailedFile struct {
	FilePath string
	Message  string
}

// FailedFiles lists files with a recorded parse error.
func FailedFiles(db *sql.DB) ([]FailedFile, error) {
	rows, err := db.Query(`SELECT file_path, parse_error FROM files WHERE parse_error != '' ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying failed files: %w", err)
	}
	defer rows.Close()

	var result []FailedFile
	for rows.Next() {
		var ff FailedFile
		if err := rows.Scan(&ff.FilePath, &ff.Message); err != nil {
			return nil, fmt.Errorf("scanning failed file: %w", err)
		}
		result = append(result, ff)
	}
	return result, rows.Err()
}

// PruneFiles deletes file records whose path is not in keep, together with
// their nodes. It returns the removed paths in order.
func PruneFiles(db *sql.DB, keep []string) ([]string, error) {
	wanted := make(map[string]bool, len(keep))
	for _, p := range keep {
		wanted[p] = true
	}

	rows, err := db.Query(`SELECT id, file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	var ids []int64
	var removed []string
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		if !wanted[path] {
			ids = append(ids, id)
			removed = append(removed, path)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := db.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("removing %s: %w", removed[i], err)
		}
	}
	return removed, nil
}
