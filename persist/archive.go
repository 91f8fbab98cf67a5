package persist

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Archive is a SQLite store of candidate and converged solutions.
type Archive struct {
	conn *sqlx.DB
}

// OpenArchive opens or creates the archive database at the given path.
func OpenArchive(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS solutions (
		id TEXT PRIMARY KEY,
		symmetry TEXT NOT NULL,
		n INTEGER NOT NULL,
		m INTEGER NOT NULL,
		t REAL NOT NULL,
		l REAL NOT NULL,
		s REAL NOT NULL,
		residual REAL NOT NULL,
		field BLOB NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_solutions_symmetry ON solutions(symmetry);
	CREATE INDEX IF NOT EXISTS idx_solutions_residual ON solutions(residual);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// Put inserts a record and returns its generated id.
func (a *Archive) Put(rec Record) (string, error) {
	if err := rec.checkShape(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := a.conn.Exec(`INSERT INTO solutions
		(id, symmetry, n, m, t, l, s, residual, field, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Symmetry, rec.N, rec.M, rec.T, rec.L, rec.S, rec.Residual,
		encodeField(rec.Field, rec.M), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert solution: %w", err)
	}
	return id, nil
}

// Get loads one record by id.
func (a *Archive) Get(id string) (rec Record, err error) {
	var row struct {
		Symmetry string  `db:"symmetry"`
		N        int     `db:"n"`
		M        int     `db:"m"`
		T        float64 `db:"t"`
		L        float64 `db:"l"`
		S        float64 `db:"s"`
		Residual float64 `db:"residual"`
		Field    []byte  `db:"field"`
	}
	if err = a.conn.Get(&row,
		"SELECT symmetry, n, m, t, l, s, residual, field FROM solutions WHERE id = ?", id); err != nil {
		err = fmt.Errorf("get solution %s: %w", id, err)
		return
	}
	field, err := decodeField(row.Field, row.N, row.M)
	if err != nil {
		return
	}
	rec = Record{
		Symmetry: row.Symmetry,
		T:        row.T,
		L:        row.L,
		S:        row.S,
		N:        row.N,
		M:        row.M,
		Residual: row.Residual,
		Field:    field,
	}
	return
}

// Entry is a summary row of the archive, without the field payload.
type Entry struct {
	ID        string  `db:"id"`
	Symmetry  string  `db:"symmetry"`
	N         int     `db:"n"`
	M         int     `db:"m"`
	T         float64 `db:"t"`
	L         float64 `db:"l"`
	S         float64 `db:"s"`
	Residual  float64 `db:"residual"`
	CreatedAt string  `db:"created_at"`
}

// Filter narrows List. Zero values leave the corresponding clause out.
type Filter struct {
	Symmetry    string
	MaxResidual float64
	Limit       int
}

// List returns archive entries ordered by residual, best first.
func (a *Archive) List(f Filter) ([]Entry, error) {
	var (
		clauses []string
		args    []interface{}
	)
	q := "SELECT id, symmetry, n, m, t, l, s, residual, created_at FROM solutions"
	if f.Symmetry != "" {
		clauses = append(clauses, "symmetry = ?")
		args = append(args, f.Symmetry)
	}
	if f.MaxResidual > 0 {
		clauses = append(clauses, "residual <= ?")
		args = append(args, f.MaxResidual)
	}
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY residual ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	var entries []Entry
	if err := a.conn.Select(&entries, q, args...); err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	return entries, nil
}

// Field rows are packed little-endian float64 in row-major order.
func encodeField(rows [][]float64, M int) []byte {
	buf := make([]byte, 0, len(rows)*M*8)
	var b [8]byte
	for _, row := range rows {
		for _, v := range row {
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
			buf = append(buf, b[:]...)
		}
	}
	return buf
}

func decodeField(b []byte, N, M int) ([][]float64, error) {
	if len(b) != N*M*8 {
		return nil, fmt.Errorf("field blob is %d bytes, want %d for %dx%d", len(b), N*M*8, N, M)
	}
	rows := make([][]float64, N)
	for i := 0; i < N; i++ {
		rows[i] = make([]float64, M)
		for j := 0; j < M; j++ {
			off := (i*M + j) * 8
			rows[i][j] = math.Float64frombits(binary.LittleEndian.Uint64(b[off : off+8]))
		}
	}
	return rows, nil
}
