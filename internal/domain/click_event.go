package domain

import "time"

// ClickEvent is an immutable record of one accepted (non-suppressed) visit
// to a tracking link. Events are append-only and are never updated or
// deleted; events may outlive their link.
type ClickEvent struct {
	ID               int64     `gorm:"primaryKey;column:id" json:"id"`
	TrackingLinkID   int64     `gorm:"column:tracking_link_id;not null;index" json:"tracking_link_id"`
	TrackingCode     string    `gorm:"column:tracking_code;size:16;not null;index" json:"tracking_code"`
	ClickedAt        time.Time `gorm:"column:clicked_at;not null;index" json:"clicked_at"`
	ReferrerURL      string    `gorm:"column:referrer_url;size:500" json:"referrer_url,omitempty"`
	ReferrerSource   string    `gorm:"column:referrer_source;size:100;not null" json:"referrer_source"`
	ReferrerCategory string    `gorm:"column:referrer_category;size:20;not null;index" json:"referrer_category"`
	UserAgent        string    `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	IPAddress        *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	DeviceType       string    `gorm:"column:device_type;size:10;not null;default:'unknown'" json:"device_type"`
}

// TableName returns the table name used by GORM.
func (ClickEvent) TableName() string {
	return "click_events"
}

// SourceCount is an aggregated per-source click count used by the
// analytics read side.
type SourceCount struct {
	Source   string `gorm:"column:referrer_source" json:"source"`
	Category string `gorm:"column:referrer_category" json:"category"`
	Count    int64  `gorm:"column:count" json:"count"`
}
