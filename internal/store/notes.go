package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const noteSelect = `SELECT notes.noteid, notes.date, notes.text, GROUP_CONCAT(tags.name) AS tags
	FROM notes
	LEFT JOIN notetags ON notetags.noteid = notes.noteid
	LEFT JOIN tags ON tags.tagid = notetags.tagid`

const noteOrder = " GROUP BY notes.noteid ORDER BY notes.date DESC, notes.noteid DESC"

// Notes lists every note, newest first. When a "lastday" setting exists,
// notes dated before it are hidden.
func (s *Store) Notes(ctx context.Context) ([]Note, error) {
	lastday, err := s.Setting(ctx, "lastday")
	if err != nil {
		return nil, err
	}
	query := noteSelect
	var args []any
	if lastday != "" {
		query += " WHERE notes.date >= ?"
		args = append(args, lastday)
	}
	rows, err := s.db.QueryContext(ctx, query+noteOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

// NotesByTag lists notes carrying the named tag, matched case-insensitively.
func (s *Store) NotesByTag(ctx context.Context, name string) ([]Note, error) {
	lastday, err := s.Setting(ctx, "lastday")
	if err != nil {
		return nil, err
	}
	query := noteSelect + ` WHERE notes.noteid IN (
		SELECT notetags.noteid FROM notetags
		WHERE notetags.tagid = (SELECT tagid FROM tags WHERE LOWER(name)=?))`
	args := []any{strings.ToLower(name)}
	if lastday != "" {
		query += " AND notes.date >= ?"
		args = append(args, lastday)
	}
	rows, err := s.db.QueryContext(ctx, query+noteOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

// NoteByID fetches a single note or ErrNotFound.
func (s *Store) NoteByID(ctx context.Context, id int64) (Note, error) {
	row := s.db.QueryRowContext(ctx, noteSelect+" WHERE notes.noteid=? GROUP BY notes.noteid", id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	return note, err
}

// NotesByMonth lists notes within the given calendar month, inclusive of
// its last day.
func (s *Store) NotesByMonth(ctx context.Context, year, month int) ([]Note, error) {
	begin := fmt.Sprintf("%04d-%02d-01", year, month)
	end := time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, noteSelect+" WHERE notes.date BETWEEN ? AND ?"+noteOrder, begin, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

// CreateNote inserts a new note dated date and links it to tags, creating
// unknown tag names on the way. The whole sequence is one transaction.
func (s *Store) CreateNote(ctx context.Context, date, text string, tags []string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO notes (date, text) VALUES (?, ?)", date, text)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := reconcileTags(ctx, tx, id, tags, false); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// UpdateNote replaces the text of an existing note and reconciles its tag
// links against tags.
func (s *Store) UpdateNote(ctx context.Context, id int64, text string, tags []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE notes SET text=? WHERE noteid=?", text, id)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if err := reconcileTags(ctx, tx, id, tags, true); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNote removes a note and all of its tag links. Tag rows themselves
// stay, even when orphaned.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notetags WHERE noteid=?", id); err != nil {
		return fmt.Errorf("delete note links: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE noteid=?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		var note Note
		var tags sql.NullString
		if err := rows.Scan(&note.ID, &note.Date, &note.Text, &tags); err != nil {
			return nil, err
		}
		note.Tags = splitTags(tags)
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func scanNote(row *sql.Row) (Note, error) {
	var note Note
	var tags sql.NullString
	if err := row.Scan(&note.ID, &note.Date, &note.Text, &tags); err != nil {
		return Note{}, err
	}
	note.Tags = splitTags(tags)
	return note, nil
}

// splitTags turns the GROUP_CONCAT aggregate into a list. NULL means no
// tags and yields an empty list, not [""].
func splitTags(tags sql.NullString) []string {
	if !tags.Valid || tags.String == "" {
		return nil
	}
	return strings.Split(tags.String, ",")
}
