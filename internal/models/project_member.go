package models

import "gorm.io/gorm"

type ProjectMember struct {
	gorm.Model

	UserID    uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
