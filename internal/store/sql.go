package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	// Drivers selectable through OpenSQL.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"modelseed/internal/entity"
	"modelseed/internal/observability"
)

// Dialect selects placeholder style and how generated keys are read back.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() (string, error) {
	switch d {
	case DialectSQLite:
		return "sqlite3", nil
	case DialectPostgres:
		return "pgx", nil
	case DialectMySQL:
		return "mysql", nil
	}
	return "", fmt.Errorf("store: unsupported dialect %q", d)
}

// SQLStore writes rows with plain INSERT statements built by squirrel. It
// needs only table and column names, so it serves hand written descriptors.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// OpenSQL opens and pings a database for dialect.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	driver, err := dialect.DriverName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return NewSQLStore(db, dialect), nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Transaction runs fn inside a database/sql transaction.
func (s *SQLStore) Transaction(ctx context.Context, fn func(w Writer) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlWriter{tx: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type sqlWriter struct {
	tx      *sql.Tx
	dialect Dialect
}

func (w *sqlWriter) Insert(ctx context.Context, d *entity.Descriptor, row entity.Row) (any, error) {
	pk, ok := d.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, d.Name)
	}
	defer observability.TrackInsert(string(w.dialect), d.Name)()

	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]string, 0, len(names))
	values := make([]any, 0, len(names))
	for _, name := range names {
		f, ok := d.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown field %q", d.Name, name)
		}
		columns = append(columns, f.Column)
		values = append(values, row[name])
	}

	q := sq.Insert(d.Table).Columns(columns...).Values(values...)
	if w.dialect == DialectPostgres {
		q = q.PlaceholderFormat(sq.Dollar).Suffix("RETURNING " + pk.Column)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s: %w", d.Name, err)
	}

	if explicit, ok := row[pk.Name]; ok {
		if _, err := w.tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert %s: %w", d.Name, err)
		}
		return explicit, nil
	}

	if w.dialect == DialectPostgres {
		var id int64
		if err := w.tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert %s: %w", d.Name, err)
		}
		return id, nil
	}

	res, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", d.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert %s: last insert id: %w", d.Name, err)
	}
	return id, nil
}
