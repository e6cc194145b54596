// Package store keeps sheets in SQLite database, so rules and their
// numbering survive process restarts without re-reading extracted styles.
package store

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"atomcss/sheet"
)

// Memory is database name which is never written to disk.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS rules (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	screen TEXT    NOT NULL,
	rule   TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS rules_screen ON rules(screen);
`

var ErrClosed = errors.New("sheet store is closed")

// Store owns database connection. Not safe for concurrent use.
type Store struct {
	log  *zap.Logger
	conn *sqlite.Conn
	err  error
}

// Open opens (creating when necessary) database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == Memory {
		flags = []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenMemory}
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("open sheet store %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare sheet store %q: %w", path, err)
	}
	s := &Store{log: log.Named("store"), conn: conn}
	s.log.Debug("Sheet store opened", zap.String("path", path))
	return s, nil
}

// Close closes database. Sheets created by the store report ErrClosed
// afterwards.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Err returns first error which happened while inserting rules. Sheet
// interface has no way to report it directly.
func (s *Store) Err() error {
	return s.err
}

// Factory returns sheet factory for sheet.WithFactory.
func (s *Store) Factory() sheet.Factory {
	return func(screen string) sheet.Sheet {
		return &dbSheet{store: s, screen: screen}
	}
}

// Screens returns names of screens having stored rules, in order of their
// first rule. Default sheet is not included.
func (s *Store) Screens() ([]string, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	var screens []string
	err := sqlitex.Execute(s.conn, `SELECT screen FROM rules WHERE screen != '' GROUP BY screen ORDER BY MIN(id)`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			screens = append(screens, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("read screens: %w", err)
	}
	return screens, nil
}

type dbSheet struct {
	store  *Store
	screen string
}

func (d *dbSheet) Insert(rule string) {
	s := d.store
	if s.conn == nil {
		s.fail(d.screen, ErrClosed)
		return
	}
	err := sqlitex.Execute(s.conn, `INSERT INTO rules (screen, rule) VALUES (?, ?)`,
		&sqlitex.ExecOptions{Args: []any{d.screen, rule}})
	if err != nil {
		s.fail(d.screen, err)
	}
}

func (d *dbSheet) RuleCount() (int, error) {
	s := d.store
	if s.conn == nil {
		return 0, ErrClosed
	}
	var count int
	err := sqlitex.Execute(s.conn, `SELECT COUNT(*) FROM rules WHERE screen = ?`,
		&sqlitex.ExecOptions{
			Args: []any{d.screen},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt(0)
				return nil
			}})
	if err != nil {
		return 0, fmt.Errorf("count rules for screen %q: %w", d.screen, err)
	}
	return count, nil
}

func (d *dbSheet) Content() string {
	s := d.store
	if s.conn == nil {
		s.log.Warn("Reading sheet from closed store", zap.String("screen", d.screen))
		return ""
	}
	var sb strings.Builder
	err := sqlitex.Execute(s.conn, `SELECT rule FROM rules WHERE screen = ? ORDER BY id`,
		&sqlitex.ExecOptions{
			Args: []any{d.screen},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				sb.WriteString(stmt.ColumnText(0))
				return nil
			}})
	if err != nil {
		s.log.Error("Unable to read sheet", zap.String("screen", d.screen), zap.Error(err))
		return ""
	}
	return sb.String()
}

func (s *Store) fail(screen string, err error) {
	s.log.Error("Unable to store rule", zap.String("screen", screen), zap.Error(err))
	if s.err == nil {
		s.err = fmt.Errorf("store rule for screen %q: %w", screen, err)
	}
}
