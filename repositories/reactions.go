package repositories

import (
  "encoding/json"
  "errors"

  "github.com/nats-io/nats.go"
  "github.com/rs/xid"
  "gorm.io/gorm"

  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
)

type ReactionsRepository struct {
  Db   *gorm.DB
  Nats *nats.Conn
}

func (r *ReactionsRepository) Get(userID string, postID string, kind models.ReactionType) (entity *models.Reaction, err error) {
  err = r.Db.Where("user_id=? AND post_id=? AND type=?", userID, postID, kind).Take(&entity).Error
  return
}

func (r *ReactionsRepository) Listings(userID string, kind models.ReactionType) []*models.Reaction {
  var reactions []*models.Reaction
  query := r.Db.Where("user_id", userID)
  if kind != "" {
    query.Where("type", kind)
  }
  query.Order("created_at desc")
  query.Find(&reactions)
  return reactions
}

func (r *ReactionsRepository) Create(userID string, postID string, kind models.ReactionType) (entity *models.Reaction, err error) {
  if _, err = r.Get(userID, postID, kind); err == nil {
    return nil, ErrConflict
  }
  if !errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, err
  }
  entity = &models.Reaction{
    ID:     xid.New().String(),
    UserID: userID,
    PostID: postID,
    Type:   kind,
  }
  err = r.Db.Create(&entity).Error
  if err == nil {
    data, _ := json.Marshal(map[string]interface{}{
      "post_id": postID,
    })
    r.Nats.Publish(config.NATS_REACTIONS_CREATE, data)
    r.Nats.Flush()
  }
  return
}

func (r *ReactionsRepository) Delete(userID string, postID string, kind models.ReactionType) (err error) {
  entity, err := r.Get(userID, postID, kind)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return &NotFoundError{Kind: "reaction"}
  }
  if err != nil {
    return
  }
  err = r.Db.Delete(&entity).Error
  if err == nil {
    data, _ := json.Marshal(map[string]interface{}{
      "post_id": postID,
    })
    r.Nats.Publish(config.NATS_REACTIONS_DELETE, data)
    r.Nats.Flush()
  }
  return
}
