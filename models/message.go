package models

import (
  "time"
)

type Message struct {
  ID        string    `gorm:"size:20;primaryKey"`
  ChatID    string    `gorm:"size:20;not null;index:idx_messages_chat,priority:1"`
  SenderID  string    `gorm:"size:20;not null"`
  Content   string    `gorm:"size:1000;not null"`
  CreatedAt time.Time `gorm:"not null;index:idx_messages_chat,priority:2"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *Message) TableName() string {
  return "messages"
}
