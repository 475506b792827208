package repositories

import (
  "errors"

  "gorm.io/gorm"
)

// VisibilityRepository decides whether a viewer may read an owner's
// content: always for themselves, always for public owners, and for
// private owners only behind a follow edge.
type VisibilityRepository struct {
  Users   UsersStore
  Follows FollowsStore
}

func (r *VisibilityRepository) CanView(viewerID string, ownerID string) (bool, error) {
  if viewerID == ownerID {
    return true, nil
  }
  isPrivate, err := r.Users.Privacy(ownerID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return false, &NotFoundError{Kind: "user"}
  }
  if err != nil {
    return false, err
  }
  if !isPrivate {
    return true, nil
  }
  if _, err := r.Follows.Get(viewerID, ownerID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return false, nil
    }
    return false, err
  }
  return true, nil
}

// AllowedAuthors is the candidate author set for feed queries: the
// users the viewer follows plus the viewer. Restricting the query up
// front keeps cursor pages full-sized; filtering after paging would
// break the page-size contract.
func (r *VisibilityRepository) AllowedAuthors(viewerID string) ([]string, error) {
  ids, err := r.Follows.FollowedIds(viewerID)
  if err != nil {
    return nil, err
  }
  return append(ids, viewerID), nil
}
