package domain

import "time"

// TrackingLink is a shareable short link whose visits are counted.
//
// A link is owned by exactly one scope: when OrganizationID is set the link
// belongs to that organization (visible to every member), otherwise it is a
// personal link of OwnerUserID. The tracking code is immutable and is never
// reused, even after the link is deleted.
type TrackingLink struct {
	ID             int64      `gorm:"primaryKey;column:id" json:"id"`
	TrackingCode   string     `gorm:"column:tracking_code;size:16;not null;uniqueIndex" json:"tracking_code"`
	Name           string     `gorm:"column:name;size:255;not null" json:"name"`
	Description    string     `gorm:"column:description;type:text" json:"description,omitempty"`
	DestinationURL string     `gorm:"column:destination_url;type:text;not null" json:"destination_url"`
	OwnerUserID    int64      `gorm:"column:owner_user_id;not null;index" json:"owner_user_id"`
	OrganizationID *int64     `gorm:"column:organization_id;index" json:"organization_id,omitempty"`
	Visits         int64      `gorm:"column:visits;not null;default:0" json:"visits"`
	LastVisit      *time.Time `gorm:"column:last_visit" json:"last_visit,omitempty"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true" json:"-"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name used by GORM.
func (TrackingLink) TableName() string {
	return "tracking_links"
}

// Scope identifies the ownership boundary analytics and list queries run
// over. OrganizationID nil means the personal scope of UserID.
type Scope struct {
	UserID         int64
	OrganizationID *int64
}

// Owns reports whether a link belongs to this scope.
func (s Scope) Owns(link *TrackingLink) bool {
	if s.OrganizationID != nil {
		return link.OrganizationID != nil && *link.OrganizationID == *s.OrganizationID
	}
	return link.OrganizationID == nil && link.OwnerUserID == s.UserID
}
