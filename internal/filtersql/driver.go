package filtersql

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/sieve/internal/textfold"
)

// DriverName is the database/sql driver for running the SQL this package
// produces. It is go-sqlite3 with FoldFunc registered on every connection.
const DriverName = "sqlite3_sieve"

// FoldFunc is the SQL function text compares fold cells with. It applies
// the same Unicode case folding as the in-memory evaluator.
const FoldFunc = "sieve_fold"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(FoldFunc, foldCell, true)
		},
	})
}

// foldCell implements FoldFunc. NULL arrives as a nil []byte and stays
// NULL.
func foldCell(cell any) any {
	if b, ok := cell.([]byte); ok && b == nil {
		return nil
	}
	return textfold.Cell(cell)
}
