// Package trace records an Environment's hook events into a SQLite
// database, mirroring the teacher's SQLiteTraceWriter (tracing/sqlite.go)
// batching pattern: records accumulate in memory and are flushed in a
// single transaction, either when the batch fills or when the process
// exits (github.com/tebeka/atexit), rather than one INSERT per record.
package trace

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/desimgo/desim"
)

type record struct {
	id     string
	pos    string
	time   float64
	detail string
}

// Recorder is a desim.Hook that persists every hook invocation it
// observes to a SQLite database.
type Recorder struct {
	db        *sql.DB
	stmt      *sql.Stmt
	path      string
	batch     []record
	batchSize int
}

// NewRecorder creates a Recorder that will write to the SQLite database at
// path once Init is called. Flush is registered to run at process exit so
// a buffered tail of records is never silently dropped.
func NewRecorder(path string) *Recorder {
	r := &Recorder{path: path, batchSize: 1000}
	atexit.Register(func() { r.Flush() })
	return r
}

// Init opens the database and creates the trace table if it does not
// already exist.
func (r *Recorder) Init() error {
	db, err := sql.Open("sqlite3", r.path)
	if err != nil {
		return err
	}
	r.db = db

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trace (
			id     TEXT NOT NULL,
			pos    TEXT NOT NULL,
			time   REAL NOT NULL,
			detail TEXT
		)
	`); err != nil {
		return err
	}

	stmt, err := db.Prepare(`INSERT INTO trace (id, pos, time, detail) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	r.stmt = stmt

	return nil
}

// Func implements desim.Hook. It is meant to be registered on an
// Environment via AcceptHook, at any subset of the package's HookPos
// values.
func (r *Recorder) Func(ctx desim.HookCtx) {
	now := 0.0
	if env, ok := ctx.Domain.(*desim.Environment); ok {
		now = float64(env.Now())
	}

	rec := record{
		id:     xid.New().String(),
		pos:    ctx.Pos.Name,
		time:   now,
		detail: fmt.Sprintf("%v", ctx.Item),
	}

	r.batch = append(r.batch, rec)
	if len(r.batch) >= r.batchSize {
		r.Flush()
	}
}

// Flush writes every buffered record to the database in one transaction.
func (r *Recorder) Flush() {
	if len(r.batch) == 0 || r.stmt == nil {
		return
	}

	tx, err := r.db.Begin()
	if err != nil {
		panic(err)
	}

	txStmt := tx.Stmt(r.stmt)
	for _, rec := range r.batch {
		if _, err := txStmt.Exec(rec.id, rec.pos, rec.time, rec.detail); err != nil {
			panic(err)
		}
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	r.batch = nil
}

// Close flushes any buffered records and closes the database connection.
func (r *Recorder) Close() error {
	r.Flush()
	if r.stmt != nil {
		_ = r.stmt.Close()
	}
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
