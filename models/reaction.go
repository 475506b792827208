package models

import (
  "time"
)

type ReactionType string

const (
  ReactionLike    ReactionType = "like"
  ReactionRetweet ReactionType = "retweet"
)

type Reaction struct {
  ID        string       `gorm:"size:20;primaryKey"`
  UserID    string       `gorm:"size:20;not null;uniqueIndex:idx_reactions_unique,priority:1"`
  PostID    string       `gorm:"size:20;not null;uniqueIndex:idx_reactions_unique,priority:2;index"`
  Type      ReactionType `gorm:"size:10;not null;uniqueIndex:idx_reactions_unique,priority:3"`
  CreatedAt time.Time    `gorm:"not null"`
  UpdatedAt time.Time    `gorm:"not null"`
}

func (m *Reaction) TableName() string {
  return "reactions"
}
