package models

import "time"

type ServiceHealth struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;size:64;uniqueIndex" json:"name"`
	LastSyncTime time.Time `gorm:"column:last_sync_time" json:"last_sync_time"`
	NextSyncTime time.Time `gorm:"column:next_sync_time" json:"next_sync_time"`
	Healthy      bool      `gorm:"column:healthy" json:"healthy"`
}

func (ServiceHealth) TableName() string {
	return "health_checks"
}
