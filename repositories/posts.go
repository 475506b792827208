package repositories

import (
  "encoding/json"
  "errors"

  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
)

// Reaction total of a post, usable in both WHERE and ORDER BY so
// engagement-ordered cursor windows stay consistent with the ordering.
const engagementExpr = "(SELECT COUNT(1) FROM reactions WHERE reactions.post_id = posts.id)"

type PostsRepository struct {
  Db   *gorm.DB
  Nats *nats.Conn
}

func (r *PostsRepository) Find(id string) (entity *models.Post, err error) {
  err = r.Db.First(&entity, "id=?", id).Error
  return
}

func (r *PostsRepository) TimelinePage(authorIDs []string, pagination *CursorPagination) ([]*models.Post, error) {
  anchor, ok, err := r.anchor(OrderByCreated, pagination, func(entity *models.Post) bool {
    return timelineAnchor(entity, authorIDs)
  })
  if err != nil {
    return nil, err
  }
  if !ok {
    return []*models.Post{}, nil
  }
  query := r.Db.Where("parent_id IS NULL").Where("author_id IN ?", authorIDs)
  return r.paginate(query, OrderByCreated, pagination.Window(anchor))
}

func (r *PostsRepository) CommentsPage(postID string, pagination *CursorPagination) ([]*models.Post, error) {
  anchor, ok, err := r.anchor(OrderByEngagement, pagination, func(entity *models.Post) bool {
    return commentsAnchor(entity, postID)
  })
  if err != nil {
    return nil, err
  }
  if !ok {
    return []*models.Post{}, nil
  }
  query := r.Db.Where("parent_id=?", postID)
  return r.paginate(query, OrderByEngagement, pagination.Window(anchor))
}

func (r *PostsRepository) CommentsByAuthor(authorID string, pagination *CursorPagination) ([]*models.Post, error) {
  anchor, ok, err := r.anchor(OrderByCreated, pagination, func(entity *models.Post) bool {
    return authorCommentsAnchor(entity, authorID)
  })
  if err != nil {
    return nil, err
  }
  if !ok {
    return []*models.Post{}, nil
  }
  query := r.Db.Where("author_id=?", authorID).Where("parent_id IS NOT NULL")
  return r.paginate(query, OrderByCreated, pagination.Window(anchor))
}

// An anchor must belong to the listing it pages: a cursor pointing at
// a row outside the candidate set gets the same empty page as a cursor
// pointing at a deleted row.
func timelineAnchor(entity *models.Post, authorIDs []string) bool {
  if entity.ParentID != nil {
    return false
  }
  for _, authorID := range authorIDs {
    if entity.AuthorID == authorID {
      return true
    }
  }
  return false
}

func commentsAnchor(entity *models.Post, postID string) bool {
  return entity.ParentID != nil && *entity.ParentID == postID
}

func authorCommentsAnchor(entity *models.Post, authorID string) bool {
  return entity.AuthorID == authorID && entity.ParentID != nil
}

func (r *PostsRepository) ByAuthor(authorID string) (posts []*models.Post, err error) {
  err = r.Db.Where("author_id=?", authorID).
    Where("parent_id IS NULL").
    Order("created_at DESC, id ASC").
    Find(&posts).Error
  return
}

func (r *PostsRepository) ByIDs(ids []string) (posts []*models.Post, err error) {
  if len(ids) == 0 {
    return []*models.Post{}, nil
  }
  err = r.Db.Where("id IN ?", ids).Find(&posts).Error
  return
}

func (r *PostsRepository) Create(
  authorID string,
  parentID string,
  content string,
  images []string,
) (entity *models.Post, err error) {
  entity = &models.Post{
    ID:       xid.New().String(),
    AuthorID: authorID,
    Content:  content,
    Images:   datatypes.JSONSlice[string](images),
  }
  if parentID != "" {
    entity.ParentID = &parentID
  }
  err = r.Db.Create(&entity).Error
  if err == nil {
    data, _ := json.Marshal(map[string]interface{}{
      "id":        entity.ID,
      "parent_id": parentID,
    })
    r.Nats.Publish(config.NATS_POSTS_CREATE, data)
    r.Nats.Flush()
  }
  return
}

// Delete removes the post, its comments and their reactions in one
// transaction, and returns the storage keys that lost their rows so
// the caller can enqueue the object purge.
func (r *PostsRepository) Delete(id string) (keys []string, err error) {
  err = r.Db.Transaction(func(tx *gorm.DB) error {
    var entity *models.Post
    if err := tx.First(&entity, "id=?", id).Error; err != nil {
      return err
    }
    var children []*models.Post
    if err := tx.Where("parent_id=?", id).Find(&children).Error; err != nil {
      return err
    }
    ids := []string{entity.ID}
    keys = append(keys, entity.Images...)
    for _, child := range children {
      ids = append(ids, child.ID)
      keys = append(keys, child.Images...)
    }
    if err := tx.Where("post_id IN ?", ids).Delete(&models.Reaction{}).Error; err != nil {
      return err
    }
    return tx.Where("id IN ?", ids).Delete(&models.Post{}).Error
  })
  if err == nil {
    data, _ := json.Marshal(map[string]interface{}{
      "id":   id,
      "keys": keys,
    })
    r.Nats.Publish(config.NATS_POSTS_DELETE, data)
    r.Nats.Flush()
  }
  return
}

func (r *PostsRepository) CountComments(postID string) (total int64, err error) {
  err = r.Db.Model(&models.Post{}).Where("parent_id=?", postID).Count(&total).Error
  return
}

func (r *PostsRepository) CountReactions(postID string, kind models.ReactionType) (total int64, err error) {
  query := r.Db.Model(&models.Reaction{}).Where("post_id=?", postID)
  if kind != "" {
    query.Where("type", kind)
  }
  err = query.Count(&total).Error
  return
}

// EngagementRanking lists the most reacted-to public posts, feeding
// the trending cache.
func (r *PostsRepository) EngagementRanking(limit int) (items []*PostEngagement, err error) {
  err = r.Db.Model(&models.Post{}).
    Select("posts.id AS id, COUNT(reactions.id) AS qty").
    Joins("JOIN users ON users.id = posts.author_id AND users.is_private = false").
    Joins("LEFT JOIN reactions ON reactions.post_id = posts.id").
    Where("posts.parent_id IS NULL").
    Group("posts.id").
    Order("qty DESC").
    Limit(limit).
    Scan(&items).Error
  return
}

func (r *PostsRepository) anchor(order PageOrder, pagination *CursorPagination, match func(*models.Post) bool) (*PageAnchor, bool, error) {
  id := pagination.AnchorID()
  if id == "" {
    return nil, true, nil
  }
  entity, err := r.Find(id)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, false, nil
  }
  if err != nil {
    return nil, false, err
  }
  if !match(entity) {
    return nil, false, nil
  }
  anchor := &PageAnchor{
    ID:        entity.ID,
    CreatedAt: entity.CreatedAt,
  }
  if order == OrderByEngagement {
    qty, err := r.CountReactions(entity.ID, "")
    if err != nil {
      return nil, false, err
    }
    anchor.Engagement = qty
  }
  return anchor, true, nil
}

// paginate applies the cursor window and always returns rows in
// forward page order: a before-walk runs against the flipped order and
// is re-reversed here.
func (r *PostsRepository) paginate(query *gorm.DB, order PageOrder, window *PageWindow) (posts []*models.Post, err error) {
  if window.Limit == 0 {
    return []*models.Post{}, nil
  }
  anchor := window.Anchor
  switch order {
  case OrderByEngagement:
    if anchor != nil {
      if window.Reverse {
        query.Where(
          engagementExpr+" > ? OR ("+engagementExpr+" = ? AND (created_at > ? OR (created_at = ? AND id < ?)))",
          anchor.Engagement, anchor.Engagement, anchor.CreatedAt, anchor.CreatedAt, anchor.ID,
        )
      } else {
        query.Where(
          engagementExpr+" < ? OR ("+engagementExpr+" = ? AND (created_at < ? OR (created_at = ? AND id > ?)))",
          anchor.Engagement, anchor.Engagement, anchor.CreatedAt, anchor.CreatedAt, anchor.ID,
        )
      }
    }
    if window.Reverse {
      query.Order(engagementExpr + " ASC, created_at ASC, id DESC")
    } else {
      query.Order(engagementExpr + " DESC, created_at DESC, id ASC")
    }
  default:
    if anchor != nil {
      if window.Reverse {
        query.Where("created_at > ? OR (created_at = ? AND id < ?)", anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
      } else {
        query.Where("created_at < ? OR (created_at = ? AND id > ?)", anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
      }
    }
    if window.Reverse {
      query.Order("created_at ASC, id DESC")
    } else {
      query.Order("created_at DESC, id ASC")
    }
  }
  if window.Limit > 0 {
    query.Limit(window.Limit)
  }
  if err = query.Find(&posts).Error; err != nil {
    return
  }
  if window.Reverse {
    for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
      posts[i], posts[j] = posts[j], posts[i]
    }
  }
  return
}
