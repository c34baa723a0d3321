// Package measure moves per-die measurements between a SQL table and the
// attributes of a wafer map.
//
// The table holds one row per die and attribute:
//
//	x INTEGER, y INTEGER, name TEXT, num DOUBLE PRECISION, txt TEXT
//
// Numeric values live in num and everything else in txt.
package measure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"wafermap/internal/wafer"
)

// DefaultTable is used when no table is configured.
const DefaultTable = "measurements"

var (
	// ErrUnsupportedDriver indicates a driver name other than sqlite or pgx.
	ErrUnsupportedDriver = errors.New("measure: unsupported driver")
	// ErrInvalidTable indicates a table name that is not a plain identifier.
	ErrInvalidTable = errors.New("measure: invalid table name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store reads and writes one measurement table.
type Store struct {
	db     *sql.DB
	driver string
	table  string
	owned  bool
}

// Open connects to the database and checks it is reachable.
func Open(ctx context.Context, driver, dsn, table string) (*Store, error) {
	driver = normalizeDriver(driver)
	if err := checkDriver(driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening the database: %w", err)
	}
	if driver == "sqlite" {
		// One connection keeps ":memory:" databases shared between statements.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	s, err := New(db, driver, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	Logger().Debug("measure: connected", "driver", driver, "table", s.table)
	return s, nil
}

// New wraps an open database. The caller keeps ownership of db.
func New(db *sql.DB, driver, table string) (*Store, error) {
	driver = normalizeDriver(driver)
	if err := checkDriver(driver); err != nil {
		return nil, err
	}
	if table == "" {
		table = DefaultTable
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return &Store{db: db, driver: driver, table: table}, nil
}

// Table returns the table name.
func (s *Store) Table() string {
	return s.table
}

// Close closes the database if Open created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// CreateTable creates the measurement table if it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	name TEXT NOT NULL,
	num DOUBLE PRECISION,
	txt TEXT,
	PRIMARY KEY (x, y, name)
)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Result counts the rows seen by Load.
type Result struct {
	Rows    int // Rows read
	Applied int // Rows stored as attributes
	Skipped int // Rows naming dies outside the map or reserved attributes
}

// Load reads every row into the attributes of m. Rows that cannot be stored
// are counted and logged, not treated as errors.
func (s *Store) Load(ctx context.Context, m *wafer.Map) (Result, error) {
	query := fmt.Sprintf(`SELECT x, y, name, num, txt FROM %s ORDER BY x, y, name`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var res Result
	for rows.Next() {
		var (
			x, y int
			name string
			num  sql.NullFloat64
			txt  sql.NullString
		)
		if err := rows.Scan(&x, &y, &name, &num, &txt); err != nil {
			return res, fmt.Errorf("scan %s: %w", s.table, err)
		}
		res.Rows++

		var value any
		switch {
		case num.Valid:
			value = num.Float64
		case txt.Valid:
			value = txt.String
		default:
			res.Skipped++
			continue
		}

		if err := m.SetAttribute(x, y, name, value); err != nil {
			Logger().Warn("measure: skipping row", "x", x, "y", y, "name", name, "error", err)
			res.Skipped++
			continue
		}
		res.Applied++
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("read %s: %w", s.table, err)
	}
	return res, nil
}

// Write upserts the named attributes of every die that has them and returns
// the number of rows written. All rows go in one transaction.
func (s *Store) Write(ctx context.Context, m *wafer.Map, names ...string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (x, y, name, num, txt) VALUES (%s, %s, %s, %s, %s)
ON CONFLICT (x, y, name) DO UPDATE SET num = excluded.num, txt = excluded.txt`,
		s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4), s.placeholder(5))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert into %s: %w", s.table, err)
	}
	defer stmt.Close()

	n := 0
	for _, c := range m.Coords() {
		for _, name := range names {
			v, err := m.Attribute(c.X, c.Y, name)
			if errors.Is(err, wafer.ErrAttributeNotFound) {
				continue
			}
			if err != nil {
				return n, err
			}
			num, txt := split(v)
			if _, err := stmt.ExecContext(ctx, c.X, c.Y, name, num, txt); err != nil {
				return n, fmt.Errorf("insert %s %s: %w", c, name, err)
			}
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return n, err
	}
	return n, nil
}

func (s *Store) placeholder(i int) string {
	if s.driver == "pgx" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// split sorts a value into the numeric or text column.
func split(v any) (sql.NullFloat64, sql.NullString) {
	switch n := v.(type) {
	case float64:
		return sql.NullFloat64{Float64: n, Valid: true}, sql.NullString{}
	case float32:
		return sql.NullFloat64{Float64: float64(n), Valid: true}, sql.NullString{}
	case int:
		return sql.NullFloat64{Float64: float64(n), Valid: true}, sql.NullString{}
	case int64:
		return sql.NullFloat64{Float64: float64(n), Valid: true}, sql.NullString{}
	case int32:
		return sql.NullFloat64{Float64: float64(n), Valid: true}, sql.NullString{}
	case bool:
		if n {
			return sql.NullFloat64{Float64: 1, Valid: true}, sql.NullString{}
		}
		return sql.NullFloat64{Valid: true}, sql.NullString{}
	case string:
		return sql.NullFloat64{}, sql.NullString{String: n, Valid: true}
	}
	return sql.NullFloat64{}, sql.NullString{String: fmt.Sprint(v), Valid: true}
}

func normalizeDriver(driver string) string {
	d := strings.ToLower(strings.TrimSpace(driver))
	switch d {
	case "sqlite3":
		return "sqlite"
	case "postgres", "postgresql":
		return "pgx"
	}
	return d
}

func checkDriver(driver string) error {
	switch driver {
	case "sqlite", "pgx":
		return nil
	}
	return fmt.Errorf("%w: %q (want sqlite or pgx)", ErrUnsupportedDriver, driver)
}
