// Package repository holds the MySQL data access layer.  Repositories return
// errs.ErrNotFound for missing rows, errs.ErrAlreadyExists for unique key
// violations and wrap everything else with errs.Storage so handlers can map
// failures without inspecting driver errors.
package repository

import (
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique key violation.
func isDuplicateKey(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func strPtr(ns sql.NullString) *string {
    if !ns.Valid {
        return nil
    }
    v := ns.String
    return &v
}

func f64Ptr(nf sql.NullFloat64) *float64 {
    if !nf.Valid {
        return nil
    }
    v := nf.Float64
    return &v
}

func i64Ptr(ni sql.NullInt64) *int64 {
    if !ni.Valid {
        return nil
    }
    v := ni.Int64
    return &v
}

func u64Ptr(ni sql.NullInt64) *uint64 {
    if !ni.Valid {
        return nil
    }
    v := uint64(ni.Int64)
    return &v
}

// nullable converts a pointer into a driver argument, nil meaning NULL.
func nullable[T any](p *T) any {
    if p == nil {
        return nil
    }
    return *p
}

// nowUTC is replaced in tests.
var nowUTC = func() time.Time { return time.Now().UTC() }
