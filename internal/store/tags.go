package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// NormalizeTags splits a comma-separated tag field into trimmed names,
// de-duplicated case-insensitively. The first spelling of a name wins and
// its case is preserved for display.
func NormalizeTags(raw string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		lower := strings.ToLower(name)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		names = append(names, name)
	}
	return names
}

// reconcileTags brings a note's tag links in line with names. Unknown
// names become new tag rows; on an edit, links missing from names are
// removed and only the missing ones are added. An empty set performs no
// tag statements at all.
func reconcileTags(ctx context.Context, tx *sql.Tx, noteID int64, names []string, edit bool) error {
	if len(names) == 0 {
		return nil
	}

	lowered := make([]any, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(name))
	}
	rows, err := tx.QueryContext(ctx,
		"SELECT tagid, name FROM tags WHERE LOWER(name) IN ("+placeholders(len(names))+")", lowered...)
	if err != nil {
		return fmt.Errorf("lookup tags: %w", err)
	}
	known := make(map[string]int64)
	var targetIDs []int64
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		known[strings.ToLower(name)] = id
		targetIDs = append(targetIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	var newNames []string
	for _, name := range names {
		if _, ok := known[strings.ToLower(name)]; !ok {
			newNames = append(newNames, name)
		}
	}
	if len(newNames) > 0 {
		args := make([]any, 0, len(newNames))
		for _, name := range newNames {
			args = append(args, name)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tags (name) VALUES "+valueRows(len(newNames), 1), args...)
		if err != nil {
			return fmt.Errorf("insert tags: %w", err)
		}
		lastID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return err
		}
		// SQLite assigns the new rows a contiguous id range ending at
		// the last insert id.
		for id := lastID - count + 1; id <= lastID; id++ {
			targetIDs = append(targetIDs, id)
		}
	}

	toAdd := targetIDs
	if edit {
		existing, err := linkedTagIDs(ctx, tx, noteID)
		if err != nil {
			return err
		}
		toDelete := subtractIDs(existing, targetIDs)
		toAdd = subtractIDs(targetIDs, existing)

		if len(toDelete) > 0 {
			args := []any{noteID}
			for _, id := range toDelete {
				args = append(args, id)
			}
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM notetags WHERE noteid=? AND tagid IN ("+placeholders(len(toDelete))+")", args...); err != nil {
				return fmt.Errorf("delete tag links: %w", err)
			}
		}
	}

	if len(toAdd) > 0 {
		args := make([]any, 0, len(toAdd)*2)
		for _, id := range toAdd {
			args = append(args, noteID, id)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO notetags (noteid, tagid) VALUES "+valueRows(len(toAdd), 2), args...); err != nil {
			return fmt.Errorf("insert tag links: %w", err)
		}
	}
	return nil
}

func linkedTagIDs(ctx context.Context, tx *sql.Tx, noteID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT tagid FROM notetags WHERE noteid=?", noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// subtractIDs returns the elements of left not present in right, keeping
// left's order. Duplicates in left survive; duplicates in right are
// irrelevant.
func subtractIDs(left, right []int64) []int64 {
	skip := make(map[int64]struct{}, len(right))
	for _, id := range right {
		skip[id] = struct{}{}
	}
	out := make([]int64, 0, len(left))
	for _, id := range left {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// placeholders emits n comma-separated ? markers for an IN list.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// valueRows emits n comma-separated (?,...) groups of width columns for a
// multi-row INSERT.
func valueRows(n, width int) string {
	row := "(" + placeholders(width) + ")"
	rows := make([]string, n)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, ",")
}
