package models

import (
  "time"
)

type Chat struct {
  ID           string    `gorm:"size:20;primaryKey"`
  FirstUserID  string    `gorm:"size:20;not null;uniqueIndex:idx_chats_pair,priority:1"`
  SecondUserID string    `gorm:"size:20;not null;uniqueIndex:idx_chats_pair,priority:2"`
  CreatedAt    time.Time `gorm:"not null"`
  UpdatedAt    time.Time `gorm:"not null"`
}

func (m *Chat) TableName() string {
  return "chats"
}
