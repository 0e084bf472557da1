package model

import "time"

// CartSnapshot is the SQL row backing the sql snapshot backend. Data holds the
// serialized line list verbatim.
type CartSnapshot struct {
	Key       string    `gorm:"column:snapshot_key;primaryKey;type:varchar(191)" json:"key"`
	Data      []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
