package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLStore is the relational adapter. Every value reaches the database as a
// bound parameter; identifiers only ever come from the sort whitelists.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

type dialect struct {
	driver    string
	serialPK  string
	timestamp string
	numbered  bool // $1, $2 placeholders instead of ?
}

var (
	sqliteDialect   = dialect{driver: "sqlite", serialPK: "INTEGER PRIMARY KEY AUTOINCREMENT", timestamp: "DATETIME"}
	postgresDialect = dialect{driver: "postgres", serialPK: "BIGSERIAL PRIMARY KEY", timestamp: "TIMESTAMPTZ", numbered: true}
)

// OpenSQL connects to a sqlite file or a postgres DSN and creates the schema.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	var d dialect
	switch driver {
	case "sqlite":
		d = sqliteDialect
		if err := os.MkdirAll(filepath.Dir(dsn), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case "postgres":
		d = postgresDialect
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	conn, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.driver == "sqlite" {
		// A single connection keeps PRAGMAs in effect and avoids SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &SQLStore{db: conn, dialect: d}
	if err := s.createSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) createSchema() error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS assignments (
			id %s,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL,
			files TEXT NOT NULL DEFAULT '[]',
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, s.dialect.serialPK, s.dialect.timestamp, s.dialect.timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS assignment_comments (
			id %s,
			assignment_id BIGINT NOT NULL REFERENCES assignments(id),
			author TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at %s NOT NULL
		)`, s.dialect.serialPK, s.dialect.timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS topics (
			topic_id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			author TEXT NOT NULL,
			created_at %s NOT NULL
		)`, s.dialect.timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS replies (
			reply_id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL REFERENCES topics(topic_id),
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			created_at %s NOT NULL
		)`, s.dialect.timestamp),
		`CREATE TABLE IF NOT EXISTS weeks (
			week_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_date TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			links TEXT NOT NULL DEFAULT '[]'
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS week_comments (
			id %s,
			week_id TEXT NOT NULL REFERENCES weeks(week_id),
			author TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at %s NOT NULL
		)`, s.dialect.serialPK, s.dialect.timestamp),
		`CREATE INDEX IF NOT EXISTS idx_assignment_comments_parent ON assignment_comments(assignment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_topic ON replies(topic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_week_comments_week ON week_comments(week_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders for drivers that expect numbered ones.
// Queries in this package never contain a literal '?'.
func (s *SQLStore) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) exists(ctx context.Context, q querier, table, column string, value any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, s.rebind("SELECT 1 FROM "+table+" WHERE "+column+" = ?"), value).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// cascadeDelete removes children then parent in one transaction.
func (s *SQLStore) cascadeDelete(ctx context.Context, childTable, childKey, parentTable, parentKey string, id any) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM "+childTable+" WHERE "+childKey+" = ?"), id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", childTable, err)
		}
		res, err := tx.ExecContext(ctx, s.rebind("DELETE FROM "+parentTable+" WHERE "+parentKey+" = ?"), id)
		if err != nil {
			return fmt.Errorf("failed to delete from %s: %w", parentTable, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLStore) deleteRow(ctx context.Context, table, key string, id any) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM "+table+" WHERE "+key+" = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// update applies the column assignments collected from a patch.
func (s *SQLStore) update(ctx context.Context, table, key string, id any, sets []string, args []any) error {
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + key + " = ?"
	res, err := s.db.ExecContext(ctx, s.rebind(query), append(args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// searchClause builds a case-insensitive LIKE over the given columns.
func searchClause(search string, columns ...string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(searchTerm(search)) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return " WHERE (" + strings.Join(parts, " OR ") + ")", args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func orderClause(column string, desc bool, tieBreaker string) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", " + tieBreaker + " ASC"
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	return string(data), err
}

func decodeList(raw string) ([]string, error) {
	items := []string{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
