package model

import "time"

// StateEntryModel is the GORM-specific struct for the 'client_state' table.
// Each row is one persisted client value.
type StateEntryModel struct {
	Key       string `gorm:"column:state_key;type:varchar(64);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (StateEntryModel) TableName() string {
	return "client_state"
}
