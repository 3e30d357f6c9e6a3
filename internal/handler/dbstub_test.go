package handler

// An in-memory database/sql driver scripted per test.  Statements are
// recorded with their arguments so tests can assert on the exact write
// sequence; query results and injected failures are supplied through
// the rows and execErr hooks.

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
)

type stmtCall struct {
	query string
	args  []driver.Value
}

type stubDB struct {
	mu     sync.Mutex
	calls  []stmtCall
	nextID int64

	// rows returns the result set for a query, nil meaning no rows.
	rows func(query string, args []driver.Value) [][]driver.Value
	// execErr, when non-nil, can fail a statement by returning an error.
	execErr func(query string) error

	began      int
	committed  int
	rolledBack int
}

func newStubDB() (*stubDB, *sql.DB) {
	s := &stubDB{nextID: 100}
	return s, sql.OpenDB(s)
}

func (s *stubDB) record(query string, args []driver.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]driver.Value, len(args))
	copy(cp, args)
	s.calls = append(s.calls, stmtCall{query: query, args: cp})
}

// firstCall returns the first recorded statement containing the given
// fragment.
func (s *stubDB) firstCall(fragment string) (stmtCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if strings.Contains(c.query, fragment) {
			return c, true
		}
	}
	return stmtCall{}, false
}

func (s *stubDB) countCalls(fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if strings.Contains(c.query, fragment) {
			n++
		}
	}
	return n
}

// driver.Connector

func (s *stubDB) Connect(context.Context) (driver.Conn, error) { return &stubConn{db: s}, nil }
func (s *stubDB) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use sql.OpenDB")
}

// driver.Conn

type stubConn struct{ db *stubDB }

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not scripted")
}
func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	c.db.mu.Lock()
	c.db.began++
	c.db.mu.Unlock()
	return &stubTx{db: c.db}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, named []driver.NamedValue) (driver.Result, error) {
	args := namedToValues(named)
	c.db.record(query, args)
	if c.db.execErr != nil {
		if err := c.db.execErr(query); err != nil {
			return nil, err
		}
	}
	c.db.mu.Lock()
	c.db.nextID++
	id := c.db.nextID
	c.db.mu.Unlock()
	return stubResult{lastID: id, affected: 1}, nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, named []driver.NamedValue) (driver.Rows, error) {
	args := namedToValues(named)
	c.db.record(query, args)
	var data [][]driver.Value
	if c.db.rows != nil {
		data = c.db.rows(query, args)
	}
	cols := 1
	if len(data) > 0 {
		cols = len(data[0])
	}
	names := make([]string, cols)
	for i := range names {
		names[i] = "c"
	}
	return &stubRows{cols: names, data: data}, nil
}

func namedToValues(named []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(named))
	for i, nv := range named {
		out[i] = nv.Value
	}
	return out
}

type stubTx struct{ db *stubDB }

func (t *stubTx) Commit() error {
	t.db.mu.Lock()
	t.db.committed++
	t.db.mu.Unlock()
	return nil
}

func (t *stubTx) Rollback() error {
	t.db.mu.Lock()
	t.db.rolledBack++
	t.db.mu.Unlock()
	return nil
}

type stubResult struct{ lastID, affected int64 }

func (r stubResult) LastInsertId() (int64, error) { return r.lastID, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.affected, nil }

type stubRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
