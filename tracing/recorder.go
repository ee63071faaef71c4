// Package tracing records callback firings into a database so that a
// machine's scheduling behavior can be inspected after a run.
package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// A FiringRecord describes one callback dispatch.
type FiringRecord struct {
	Tick     uint64
	Time     float64
	EventID  string
	Priority int
	DT       float64
}

// Recorder is a backend that can store firing records.
type Recorder interface {
	// Record buffers one firing record for storage.
	Record(rec FiringRecord)

	// Flush writes all the buffered records into the backend.
	Flush()
}

// NewSQLiteWriter creates a Recorder that writes into an SQLite database at
// path. If path is empty, a unique name is generated.
func NewSQLiteWriter(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 100000,
	}

	w.Init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a Recorder that writes into an already-open database.
// The firings table must exist.
func NewWithDB(db *sql.DB) *SQLiteWriter {
	w := &SQLiteWriter{
		DB:        db,
		batchSize: 100000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// SQLiteWriter is the Recorder that writes firing records into an SQLite
// database.
type SQLiteWriter struct {
	*sql.DB

	dbName    string
	batchSize int
	records   []FiringRecord
}

// Init establishes a connection to the database and creates the firings
// table.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "cadence_trace_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for tracing: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db

	w.mustExecute(`CREATE TABLE firings (
	tick INTEGER,
	time REAL,
	event_id TEXT,
	priority INTEGER,
	dt REAL
);`)
}

// Record buffers one firing record, flushing when the batch is full.
func (w *SQLiteWriter) Record(rec FiringRecord) {
	w.records = append(w.records, rec)

	if len(w.records) >= w.batchSize {
		w.Flush()
	}
}

// Flush writes all buffered records in one transaction.
func (w *SQLiteWriter) Flush() {
	if len(w.records) == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	stmt, err := w.Prepare(
		"INSERT INTO firings VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, rec := range w.records {
		_, err := stmt.Exec(
			rec.Tick, rec.Time, rec.EventID, rec.Priority, rec.DT)
		if err != nil {
			panic(err)
		}
	}

	w.records = nil
}

func (w *SQLiteWriter) mustExecute(query string) sql.Result {
	res, err := w.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
