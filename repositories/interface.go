package repositories

import (
  "time"

  "social.local/twitter-api/models"
)

type PageOrder int

const (
  OrderByCreated PageOrder = iota
  OrderByEngagement
)

// Stores the timeline composer consumes. The gorm repositories in this
// package satisfy them; tests substitute in-memory fakes.
type PostsStore interface {
  Find(id string) (*models.Post, error)
  TimelinePage(authorIDs []string, pagination *CursorPagination) ([]*models.Post, error)
  CommentsPage(postID string, pagination *CursorPagination) ([]*models.Post, error)
  CommentsByAuthor(authorID string, pagination *CursorPagination) ([]*models.Post, error)
  ByAuthor(authorID string) ([]*models.Post, error)
  ByIDs(ids []string) ([]*models.Post, error)
  Create(authorID string, parentID string, content string, images []string) (*models.Post, error)
  Delete(id string) ([]string, error)
  CountComments(postID string) (int64, error)
  CountReactions(postID string, kind models.ReactionType) (int64, error)
}

type UsersStore interface {
  Find(id string) (*models.User, error)
  Privacy(id string) (bool, error)
}

type FollowsStore interface {
  Get(followerID string, followedID string) (*models.Follow, error)
  FollowedIds(userID string) ([]string, error)
}

type Signer interface {
  SignGet(key string) (string, error)
  SignPut(key string) (string, error)
}

type UserView struct {
  ID        string    `json:"id"`
  Username  string    `json:"username"`
  Name      string    `json:"name"`
  Image     string    `json:"image,omitempty"`
  IsPrivate bool      `json:"isPrivate"`
  CreatedAt time.Time `json:"createdAt"`
}

// ExtendedPost is the response-only view of a post or comment. Images
// and the author avatar hold signed URLs, never storage keys; the
// counts are derived at read time.
type ExtendedPost struct {
  ID          string    `json:"id"`
  AuthorID    string    `json:"authorId"`
  ParentID    string    `json:"parentId,omitempty"`
  Content     string    `json:"content"`
  Images      []string  `json:"images"`
  CreatedAt   time.Time `json:"createdAt"`
  Author      *UserView `json:"author"`
  QtyComments int64     `json:"qtyComments"`
  QtyLikes    int64     `json:"qtyLikes"`
  QtyRetweets int64     `json:"qtyRetweets"`
}

type CreatePostPayload struct {
  Content  string   `json:"content"`
  Images   []string `json:"images"`
  ParentID string   `json:"parentId"`
}

type PostEngagement struct {
  ID  string
  Qty int64
}
