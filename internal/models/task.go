package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	ProjectID   uint  `gorm:"not null;index"`
	CreatorID   uint  `gorm:"not null;index"`
	AssigneeID  *uint `gorm:"index"`
	Priority    string `gorm:"not null;default:'MEDIUM'"` // LOW, MEDIUM, HIGH, URGENT
	Status      string `gorm:"not null;default:'TODO'"`   // TODO, IN_PROGRESS, IN_REVIEW, DONE
	DueDate     *time.Time

	// Relationships
	Project  Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator  User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User     `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
