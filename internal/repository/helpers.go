package repository

import (
	"database/sql"
	"time"
)

// Shared scanning and partial-update helpers for the service-record repos.

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// setStr adds "col = ?" and its argument when the value was supplied.
// A nil pointer means the caller left the column untouched.
func setStr(sets *[]string, args *[]interface{}, col string, p *string) {
	if p == nil {
		return
	}
	*sets = append(*sets, col+" = ?")
	*args = append(*args, *p)
}

func setTime(sets *[]string, args *[]interface{}, col string, p *time.Time) {
	if p == nil {
		return
	}
	*sets = append(*sets, col+" = ?")
	*args = append(*args, *p)
}

func setInt(sets *[]string, args *[]interface{}, col string, p *int64) {
	if p == nil {
		return
	}
	*sets = append(*sets, col+" = ?")
	*args = append(*args, *p)
}

// affectedOne turns a zero-row update/delete into ErrNotFound.  The DSN
// enables clientFoundRows so a no-change update still counts its matched row.
func affectedOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return Translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
