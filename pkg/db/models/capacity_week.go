package models

import "time"

// CapacityWeek tracks how many nail sets are booked for production in a given
// week against the studio's weekly limit. WeekStart is always a Monday at
// midnight UTC.
type CapacityWeek struct {
	WeekStart  time.Time `gorm:"column:week_start;primaryKey"`
	BookedSets int       `gorm:"column:booked_sets;not null;default:0"`
	LimitSets  int       `gorm:"column:limit_sets;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
