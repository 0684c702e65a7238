package model

import "time"

const (
	ActionUpload   = "UPLOAD"
	ActionDownload = "DOWNLOAD"
)

// ServiceActionLog is the append-only audit trail. Rows are only ever
// inserted, one per logical action per file per request.
type ServiceActionLog struct {
	ID uint64 `gorm:"primaryKey" json:"id,omitempty"`

	UserID uint64 `gorm:"column:user_id;not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	FileID *uint64 `gorm:"column:file_id;index" json:"file_id,omitempty"`
	File   *File   `gorm:"foreignKey:FileID;references:ID" json:"-"`

	Action string `gorm:"column:action;type:varchar(16);not null" json:"action"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (ServiceActionLog) TableName() string {
	return "service_action_log"
}
