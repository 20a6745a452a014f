package repository

import (
	"database/sql"
	"time"
)

const timeLayout = time.RFC3339Nano

// stringOrEmpty reads a nullable TEXT column.
func stringOrEmpty(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

// nowUTC is swapped in tests.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}
