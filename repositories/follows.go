package repositories

import (
  "errors"

  "github.com/rs/xid"
  "gorm.io/gorm"

  "social.local/twitter-api/models"
)

type FollowsRepository struct {
  Db *gorm.DB
}

func (r *FollowsRepository) Get(followerID string, followedID string) (entity *models.Follow, err error) {
  err = r.Db.Where("follower_id=? AND followed_id=?", followerID, followedID).Take(&entity).Error
  return
}

func (r *FollowsRepository) FollowedIds(userID string) (ids []string, err error) {
  err = r.Db.Model(&models.Follow{}).Where("follower_id", userID).Pluck("followed_id", &ids).Error
  return
}

// Relationship reports whether both edges exist between the two users.
func (r *FollowsRepository) Relationship(userID string, otherUserID string) (bool, error) {
  if _, err := r.Get(userID, otherUserID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return false, nil
    }
    return false, err
  }
  if _, err := r.Get(otherUserID, userID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return false, nil
    }
    return false, err
  }
  return true, nil
}

func (r *FollowsRepository) RelatedUserIds(userID string) (ids []string, err error) {
  err = r.Db.Model(&models.Follow{}).
    Where("follower_id=?", userID).
    Where("followed_id IN (?)", r.Db.Model(&models.Follow{}).Select("follower_id").Where("followed_id=?", userID)).
    Pluck("followed_id", &ids).Error
  return
}

func (r *FollowsRepository) Create(followerID string, followedID string) (entity *models.Follow, err error) {
  if _, err = r.Get(followerID, followedID); err == nil {
    return nil, ErrConflict
  }
  if !errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, err
  }
  entity = &models.Follow{
    ID:         xid.New().String(),
    FollowerID: followerID,
    FollowedID: followedID,
  }
  err = r.Db.Create(&entity).Error
  return
}

func (r *FollowsRepository) Delete(followerID string, followedID string) (err error) {
  entity, err := r.Get(followerID, followedID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return &NotFoundError{Kind: "follow"}
  }
  if err != nil {
    return
  }
  err = r.Db.Delete(&entity).Error
  return
}
