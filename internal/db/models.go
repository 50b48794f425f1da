package db

import (
	"database/sql"
)

type Cart struct {
	ID          int64
	Title       string
	Price       sql.NullFloat64
	Description sql.NullString
}
