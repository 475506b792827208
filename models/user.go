package models

import (
  "time"
)

type User struct {
  ID        string    `gorm:"size:20;primaryKey"`
  Username  string    `gorm:"size:50;not null;uniqueIndex"`
  Email     string    `gorm:"size:100;not null;uniqueIndex"`
  Name      string    `gorm:"size:50;not null"`
  Password  string    `gorm:"size:100;not null"`
  Salt      string    `gorm:"size:32;not null"`
  Image     string    `gorm:"size:200;not null"`
  Biography string    `gorm:"size:240;not null"`
  IsPrivate bool      `gorm:"not null;index"`
  CreatedAt time.Time `gorm:"not null;index"`
  UpdatedAt time.Time `gorm:"not null"`
}

func (m *User) TableName() string {
  return "users"
}
