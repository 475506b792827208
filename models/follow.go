package models

import (
  "time"
)

type Follow struct {
  ID         string    `gorm:"size:20;primaryKey"`
  FollowerID string    `gorm:"size:20;not null;uniqueIndex:idx_follows_pair,priority:1"`
  FollowedID string    `gorm:"size:20;not null;uniqueIndex:idx_follows_pair,priority:2;index"`
  CreatedAt  time.Time `gorm:"not null"`
  UpdatedAt  time.Time `gorm:"not null"`
}

func (m *Follow) TableName() string {
  return "follows"
}
