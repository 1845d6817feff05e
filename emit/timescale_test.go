package emit

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JamesSCrook/pma/status"
)

type fakeBatchResults struct {
	err error
}

func (f fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, f.err }
func (f fakeBatchResults) Query() (pgx.Rows, error)         { return nil, f.err }
func (f fakeBatchResults) QueryRow() pgx.Row                { return nil }
func (f fakeBatchResults) Close() error                     { return f.err }

type fakeExecutor struct {
	execSQL  []string
	batches  []*pgx.Batch
	batchErr error
	closed   bool
}

func (f *fakeExecutor) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

func (f *fakeExecutor) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	return fakeBatchResults{err: f.batchErr}
}

func (f *fakeExecutor) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func TestTimescaleBatching(t *testing.T) {
	cat, tbl := testSetup(t)
	conn := &fakeExecutor{}
	ts, err := NewTimescale(conn, cat, tbl, status.NewStandardLogger(status.LogLevelError, &bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewTimescale: %v", err)
	}
	if len(conn.execSQL) != 1 || !strings.Contains(conn.execSQL[0], "CREATE TABLE IF NOT EXISTS pma_samples") {
		t.Fatalf("expected table DDL on open, got %v", conn.execSQL)
	}

	ts.Block(1650000000)
	if len(conn.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(conn.batches))
	}
	batch := conn.batches[0]
	// Row 0 carries only the vector column; row 1 all three active ones.
	if batch.Len() != 4 {
		t.Fatalf("expected 4 inserts, got %d", batch.Len())
	}
	args := batch.QueuedQueries[2].Arguments
	wantTime := time.Unix(1650000600, 0).In(tbl.Location())
	if !args[0].(time.Time).Equal(wantTime) || args[1] != "IO" || args[2] != "tps" ||
		args[3] != "sda" || args[4] != 22.0 {
		t.Fatalf("insert arguments wrong: %v", args)
	}

	if err := ts.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !conn.closed {
		t.Fatalf("connection not closed")
	}
}

func TestTimescaleInsertErrorIsLogged(t *testing.T) {
	cat, tbl := testSetup(t)
	conn := &fakeExecutor{batchErr: errors.New("connection reset")}
	var diag bytes.Buffer
	ts, err := NewTimescale(conn, cat, tbl, status.NewStandardLogger(status.LogLevelError, &diag))
	if err != nil {
		t.Fatalf("NewTimescale: %v", err)
	}
	ts.Block(1650000000)
	if !strings.Contains(diag.String(), "Database insert failed") {
		t.Fatalf("missing diagnostic, got '%s'", diag.String())
	}
}
