package models

import (
  "time"

  "gorm.io/datatypes"
)

type Post struct {
  ID        string                      `gorm:"size:20;primaryKey"`
  AuthorID  string                      `gorm:"size:20;not null;index:idx_posts_author,priority:1"`
  ParentID  *string                     `gorm:"size:20;index"`
  Content   string                      `gorm:"size:240;not null"`
  Images    datatypes.JSONSlice[string] `gorm:"not null"`
  CreatedAt time.Time                   `gorm:"not null;index:idx_posts_feed,priority:1;index:idx_posts_author,priority:2"`
  UpdatedAt time.Time                   `gorm:"not null"`
}

func (m *Post) TableName() string {
  return "posts"
}
