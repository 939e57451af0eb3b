package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump is the log-only view of an error: its typed code, the wrapped
// chain and, when a database raised it, what the driver reported.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Store *StoreDetail `json:"store,omitempty"`
}

// StoreDetail is the driver-reported cause of a database error.
type StoreDetail struct {
	Driver     string `json:"driver"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Store = storeDetail(err)
	return d
}

// Fields flattens the dump for structured logging.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if s := d.Store; s != nil {
		fields["db_driver"] = s.Driver
		fields["db_code"] = s.Code
		fields["db_constraint"] = s.Constraint
		fields["db_table"] = s.Table
		fields["db_column"] = s.Column
		fields["db_detail"] = s.Detail
		fields["db_message"] = s.Message
	}
	return fields
}

func storeDetail(err error) *StoreDetail {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &StoreDetail{
			Driver:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &StoreDetail{
			Driver:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		detail := &StoreDetail{
			Driver:  "sqlite",
			Code:    liteErr.ExtendedCode.Error(),
			Message: liteErr.Error(),
		}
		detail.Table, detail.Column = sqliteConstraintTarget(liteErr.Error())
		return detail
	}

	return nil
}

// sqliteConstraintTarget pulls "table.column" out of messages such as
// "UNIQUE constraint failed: heros.heading".
func sqliteConstraintTarget(msg string) (table, column string) {
	_, target, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return "", ""
	}
	target, _, _ = strings.Cut(target, ",")
	table, column, _ = strings.Cut(strings.TrimSpace(target), ".")
	return table, column
}
