package emit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JamesSCrook/pma/catalog"
	"github.com/JamesSCrook/pma/params"
	"github.com/JamesSCrook/pma/status"
)

// PgExecutor is the slice of the pgx connection the emitter needs.
// *pgx.Conn satisfies it.
type PgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Close(ctx context.Context) error
}

const createSamplesTable = `CREATE TABLE IF NOT EXISTS pma_samples (
	time   timestamptz NOT NULL,
	class  text        NOT NULL,
	metric text        NOT NULL,
	device text        NOT NULL,
	value  double precision NOT NULL
)`

const insertSample = `INSERT INTO pma_samples (time, class, metric, device, value)
	VALUES ($1, $2, $3, $4, $5)`

// Timescale writes normalized samples in long format to a database table,
// one batch per block.  Insert failures are reported but do not stop the
// run; the samples are duplicative of the file outputs.
type Timescale struct {
	conn PgExecutor
	cat  *catalog.Catalog
	tbl  *params.Table
	cols []catalog.Column
	log  status.Logger
}

// OpenTimescale connects to the database and ensures the samples table
// exists.  Connection or DDL failure is fatal to the run.
func OpenTimescale(databaseURI string, cat *catalog.Catalog, tbl *params.Table, log status.Logger) (*Timescale, error) {
	conn, err := pgx.Connect(context.Background(), databaseURI)
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to database: %w", err)
	}
	ts, err := NewTimescale(conn, cat, tbl, log)
	if err != nil {
		conn.Close(context.Background())
		return nil, err
	}
	return ts, nil
}

// NewTimescale wraps an open connection.  Split from OpenTimescale so the
// batching logic is testable against a fake executor.
func NewTimescale(conn PgExecutor, cat *catalog.Catalog, tbl *params.Table, log status.Logger) (*Timescale, error) {
	if _, err := conn.Exec(context.Background(), createSamplesTable); err != nil {
		return nil, fmt.Errorf("Could not create samples table: %w", err)
	}
	return &Timescale{
		conn: conn,
		cat:  cat,
		tbl:  tbl,
		cols: activeColumns(cat, tbl),
		log:  log,
	}, nil
}

func (ts *Timescale) Block(timestamp int64) {
	batch := new(pgx.Batch)
	for rowIdx := 0; rowIdx < ts.cat.Count; rowIdx++ {
		t := rowTime(ts.cat, ts.tbl, timestamp, rowIdx)
		for _, col := range ts.cols {
			if rowIdx < col.Class.StartRow {
				continue
			}
			batch.Queue(insertSample,
				t, col.Class.Name, col.Metric.Name, col.Device.Name,
				normalize(ts.tbl, col, col.Device.Raw[rowIdx]))
		}
	}
	if batch.Len() == 0 {
		return
	}
	br := ts.conn.SendBatch(context.Background(), batch)
	if err := br.Close(); err != nil {
		ts.log.Errorf("Database insert failed: %v", err)
	}
}

func (ts *Timescale) Close() error {
	return ts.conn.Close(context.Background())
}
