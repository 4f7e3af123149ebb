package postgres

import (
	"database/sql"
	"strconv"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt32(n int32) sql.NullInt32 {
	return sql.NullInt32{Int32: n, Valid: n != 0}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
