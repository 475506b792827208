package repositories

import (
  "errors"
  "fmt"
  "sync"
  "time"
  "unicode/utf8"

  "gorm.io/gorm"

  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
)

// TimelineRepository assembles the privacy-filtered, cursor-paginated
// post and comment feeds: it restricts candidates up front, pages them
// in-store, rewrites stored image keys into signed URLs and attaches
// author views and engagement counts, without disturbing page order.
type TimelineRepository struct {
  Posts      PostsStore
  Users      UsersStore
  Follows    FollowsStore
  Visibility *VisibilityRepository
  Signer     Signer
}

func (r *TimelineRepository) Timeline(viewerID string, pagination *CursorPagination) ([]*ExtendedPost, error) {
  authorIDs, err := r.Visibility.AllowedAuthors(viewerID)
  if err != nil {
    return nil, err
  }
  posts, err := r.Posts.TimelinePage(authorIDs, pagination)
  if err != nil {
    return nil, err
  }
  return r.extend(posts, r.Signer.SignGet)
}

func (r *TimelineRepository) PostsByAuthor(viewerID string, authorID string) ([]*ExtendedPost, error) {
  if viewerID != authorID {
    ok, err := r.Visibility.CanView(viewerID, authorID)
    if err != nil {
      return nil, err
    }
    if !ok {
      return nil, &NotFoundError{Kind: "follow"}
    }
  }
  posts, err := r.Posts.ByAuthor(authorID)
  if err != nil {
    return nil, err
  }
  return r.extend(posts, r.Signer.SignGet)
}

func (r *TimelineRepository) CommentsByPost(postID string, pagination *CursorPagination) ([]*ExtendedPost, error) {
  comments, err := r.Posts.CommentsPage(postID, pagination)
  if err != nil {
    return nil, err
  }
  return r.extend(comments, r.Signer.SignGet)
}

func (r *TimelineRepository) LatestComments(viewerID string, authorID string, pagination *CursorPagination) ([]*ExtendedPost, error) {
  if viewerID != authorID {
    ok, err := r.Visibility.CanView(viewerID, authorID)
    if err != nil {
      return nil, err
    }
    if !ok {
      return nil, &NotFoundError{Kind: "follow"}
    }
  }
  comments, err := r.Posts.CommentsByAuthor(authorID, pagination)
  if err != nil {
    return nil, err
  }
  return r.extend(comments, r.Signer.SignGet)
}

func (r *TimelineRepository) Post(viewerID string, postID string) (*ExtendedPost, error) {
  post, err := r.Posts.Find(postID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, &NotFoundError{Kind: "post"}
  }
  if err != nil {
    return nil, err
  }
  ok, err := r.Visibility.CanView(viewerID, post.AuthorID)
  if err != nil {
    return nil, err
  }
  if !ok {
    return nil, &NotFoundError{Kind: "follow"}
  }
  return r.extendOne(post, r.Signer.SignGet)
}

// PostsByIDs resolves an externally ranked id list (the trending set),
// keeps the given order, and drops entries the viewer may not see.
func (r *TimelineRepository) PostsByIDs(viewerID string, ids []string) ([]*ExtendedPost, error) {
  posts, err := r.Posts.ByIDs(ids)
  if err != nil {
    return nil, err
  }
  byID := make(map[string]int, len(posts))
  for i, post := range posts {
    byID[post.ID] = i
  }
  items := []*ExtendedPost{}
  for _, id := range ids {
    idx, ok := byID[id]
    if !ok {
      continue
    }
    post := posts[idx]
    visible, err := r.Visibility.CanView(viewerID, post.AuthorID)
    if err != nil {
      var notFound *NotFoundError
      if errors.As(err, &notFound) {
        continue
      }
      return nil, err
    }
    if !visible {
      continue
    }
    item, err := r.extendOne(post, r.Signer.SignGet)
    if err != nil {
      return nil, err
    }
    items = append(items, item)
  }
  return items, nil
}

// CreatePost validates the input, namespaces the uploaded image names
// into storage keys before any signing happens, persists the keys and
// answers with write URLs the client uploads against afterwards.
func (r *TimelineRepository) CreatePost(authorID string, payload *CreatePostPayload) (*ExtendedPost, error) {
  if payload.Content == "" || utf8.RuneCountInString(payload.Content) > config.POST_CONTENT_LIMIT {
    return nil, &ValidationError{Message: fmt.Sprintf("content must be 1-%d characters", config.POST_CONTENT_LIMIT)}
  }
  if len(payload.Images) > config.POST_IMAGES_LIMIT {
    return nil, &ValidationError{Message: fmt.Sprintf("at most %d images allowed", config.POST_IMAGES_LIMIT)}
  }

  kind := "post"
  if payload.ParentID != "" {
    kind = "comment"
  }
  keys := make([]string, len(payload.Images))
  for i, name := range payload.Images {
    keys[i] = fmt.Sprintf("%s/%s/%d/%d/%s", kind, authorID, i, time.Now().UnixMilli(), name)
  }

  post, err := r.Posts.Create(authorID, payload.ParentID, payload.Content, keys)
  if err != nil {
    return nil, err
  }
  return r.extendOne(post, r.Signer.SignPut)
}

// DeletePost enforces ownership and returns the storage keys freed by
// the delete so the caller can schedule the object purge.
func (r *TimelineRepository) DeletePost(requesterID string, postID string) ([]string, error) {
  post, err := r.Posts.Find(postID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, &NotFoundError{Kind: "post"}
  }
  if err != nil {
    return nil, err
  }
  if post.AuthorID != requesterID {
    return nil, ErrForbidden
  }
  return r.Posts.Delete(post.ID)
}

// extend maps rows to views. URL resolution and count queries fan out
// per item; every result lands back in the item's original slot, so
// page order survives the concurrency. The first failure discards the
// whole page.
func (r *TimelineRepository) extend(posts []*models.Post, sign func(string) (string, error)) ([]*ExtendedPost, error) {
  items := make([]*ExtendedPost, len(posts))
  var wg sync.WaitGroup
  var mux sync.Mutex
  var firstErr error
  for i, post := range posts {
    wg.Add(1)
    go func(i int, post *models.Post) {
      defer wg.Done()
      item, err := r.extendOne(post, sign)
      mux.Lock()
      defer mux.Unlock()
      if err != nil {
        if firstErr == nil {
          firstErr = err
        }
        return
      }
      items[i] = item
    }(i, post)
  }
  wg.Wait()
  if firstErr != nil {
    return nil, firstErr
  }
  return items, nil
}

func (r *TimelineRepository) extendOne(post *models.Post, sign func(string) (string, error)) (*ExtendedPost, error) {
  author, err := r.Users.Find(post.AuthorID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, &NotFoundError{Kind: "author"}
  }
  if err != nil {
    return nil, err
  }

  images := make([]string, len(post.Images))
  for i, key := range post.Images {
    if images[i], err = sign(key); err != nil {
      return nil, err
    }
  }

  view := &UserView{
    ID:        author.ID,
    Username:  author.Username,
    Name:      author.Name,
    IsPrivate: author.IsPrivate,
    CreatedAt: author.CreatedAt,
  }
  if author.Image != "" {
    if view.Image, err = r.Signer.SignGet(author.Image); err != nil {
      return nil, err
    }
  }

  qtyComments, err := r.Posts.CountComments(post.ID)
  if err != nil {
    return nil, err
  }
  qtyLikes, err := r.Posts.CountReactions(post.ID, models.ReactionLike)
  if err != nil {
    return nil, err
  }
  qtyRetweets, err := r.Posts.CountReactions(post.ID, models.ReactionRetweet)
  if err != nil {
    return nil, err
  }

  item := &ExtendedPost{
    ID:          post.ID,
    AuthorID:    post.AuthorID,
    Content:     post.Content,
    Images:      images,
    CreatedAt:   post.CreatedAt,
    Author:      view,
    QtyComments: qtyComments,
    QtyLikes:    qtyLikes,
    QtyRetweets: qtyRetweets,
  }
  if post.ParentID != nil {
    item.ParentID = *post.ParentID
  }
  return item, nil
}
