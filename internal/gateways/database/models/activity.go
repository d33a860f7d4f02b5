package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Activity rows are insert-only. ID is a snowflake, so ordering by id
// matches acceptance order.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID        int64     `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	Type      string    `bun:"type,notnull"`
	Title     string    `bun:"title,notnull"`
	XPEarned  int       `bun:"xp_earned,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
