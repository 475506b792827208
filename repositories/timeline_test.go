package repositories

import (
  "errors"
  "fmt"
  "sort"
  "strings"
  "testing"
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"

  "social.local/twitter-api/models"
)

type fakeUsers struct {
  users map[string]*models.User
}

func (f *fakeUsers) Find(id string) (*models.User, error) {
  user, ok := f.users[id]
  if !ok {
    return nil, gorm.ErrRecordNotFound
  }
  return user, nil
}

func (f *fakeUsers) Privacy(id string) (bool, error) {
  user, ok := f.users[id]
  if !ok {
    return false, gorm.ErrRecordNotFound
  }
  return user.IsPrivate, nil
}

type fakeFollows struct {
  edges map[string][]string
}

func (f *fakeFollows) Get(followerID string, followedID string) (*models.Follow, error) {
  for _, id := range f.edges[followerID] {
    if id == followedID {
      return &models.Follow{FollowerID: followerID, FollowedID: followedID}, nil
    }
  }
  return nil, gorm.ErrRecordNotFound
}

func (f *fakeFollows) FollowedIds(userID string) ([]string, error) {
  return f.edges[userID], nil
}

// fakePosts keeps rows pre-sorted in forward page order and mirrors
// the SQL windowing through PageWindow.Paginate.
type fakePosts struct {
  posts     []*models.Post
  reactions map[string]map[models.ReactionType]int64
  created   []*models.Post
  deleted   []string
}

func (f *fakePosts) Find(id string) (*models.Post, error) {
  for _, post := range f.posts {
    if post.ID == id {
      return post, nil
    }
  }
  return nil, gorm.ErrRecordNotFound
}

func (f *fakePosts) anchor(pagination *CursorPagination) (*PageAnchor, bool) {
  id := pagination.AnchorID()
  if id == "" {
    return nil, true
  }
  post, err := f.Find(id)
  if err != nil {
    return nil, false
  }
  return &PageAnchor{ID: post.ID, CreatedAt: post.CreatedAt}, true
}

func (f *fakePosts) page(rows []*models.Post, pagination *CursorPagination) ([]*models.Post, error) {
  anchor, ok := f.anchor(pagination)
  if !ok {
    return []*models.Post{}, nil
  }
  return pagination.Window(anchor).Paginate(rows), nil
}

func (f *fakePosts) TimelinePage(authorIDs []string, pagination *CursorPagination) ([]*models.Post, error) {
  allowed := map[string]bool{}
  for _, id := range authorIDs {
    allowed[id] = true
  }
  rows := []*models.Post{}
  for _, post := range f.posts {
    if post.ParentID == nil && allowed[post.AuthorID] {
      rows = append(rows, post)
    }
  }
  return f.page(rows, pagination)
}

func (f *fakePosts) CommentsPage(postID string, pagination *CursorPagination) ([]*models.Post, error) {
  rows := []*models.Post{}
  for _, post := range f.posts {
    if post.ParentID != nil && *post.ParentID == postID {
      rows = append(rows, post)
    }
  }
  sort.SliceStable(rows, func(i, j int) bool {
    qi := f.engagement(rows[i].ID)
    qj := f.engagement(rows[j].ID)
    if qi != qj {
      return qi > qj
    }
    if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
      return rows[i].CreatedAt.After(rows[j].CreatedAt)
    }
    return rows[i].ID < rows[j].ID
  })
  return f.page(rows, pagination)
}

func (f *fakePosts) CommentsByAuthor(authorID string, pagination *CursorPagination) ([]*models.Post, error) {
  rows := []*models.Post{}
  for _, post := range f.posts {
    if post.ParentID != nil && post.AuthorID == authorID {
      rows = append(rows, post)
    }
  }
  return f.page(rows, pagination)
}

func (f *fakePosts) ByAuthor(authorID string) ([]*models.Post, error) {
  rows := []*models.Post{}
  for _, post := range f.posts {
    if post.ParentID == nil && post.AuthorID == authorID {
      rows = append(rows, post)
    }
  }
  return rows, nil
}

func (f *fakePosts) ByIDs(ids []string) ([]*models.Post, error) {
  rows := []*models.Post{}
  for _, id := range ids {
    if post, err := f.Find(id); err == nil {
      rows = append(rows, post)
    }
  }
  return rows, nil
}

func (f *fakePosts) Create(authorID string, parentID string, content string, images []string) (*models.Post, error) {
  post := &models.Post{
    ID:        fmt.Sprintf("new%02d", len(f.created)),
    AuthorID:  authorID,
    Content:   content,
    Images:    datatypes.JSONSlice[string](images),
    CreatedAt: time.Now(),
  }
  if parentID != "" {
    post.ParentID = &parentID
  }
  f.created = append(f.created, post)
  f.posts = append(f.posts, post)
  return post, nil
}

func (f *fakePosts) Delete(id string) ([]string, error) {
  post, err := f.Find(id)
  if err != nil {
    return nil, err
  }
  f.deleted = append(f.deleted, id)
  return post.Images, nil
}

func (f *fakePosts) CountComments(postID string) (int64, error) {
  var total int64
  for _, post := range f.posts {
    if post.ParentID != nil && *post.ParentID == postID {
      total++
    }
  }
  return total, nil
}

func (f *fakePosts) CountReactions(postID string, kind models.ReactionType) (int64, error) {
  if kind == "" {
    return f.engagement(postID), nil
  }
  return f.reactions[postID][kind], nil
}

func (f *fakePosts) engagement(postID string) int64 {
  var total int64
  for _, qty := range f.reactions[postID] {
    total += qty
  }
  return total
}

type fakeSigner struct {
  fail bool
}

func (f *fakeSigner) SignGet(key string) (string, error) {
  if f.fail {
    return "", &SigningError{Err: errors.New("presign unavailable")}
  }
  return "https://signed.example/" + key, nil
}

func (f *fakeSigner) SignPut(key string) (string, error) {
  if f.fail {
    return "", &SigningError{Err: errors.New("presign unavailable")}
  }
  return "https://upload.example/" + key, nil
}

func newComposer(users *fakeUsers, follows *fakeFollows, posts *fakePosts, signer *fakeSigner) *TimelineRepository {
  return &TimelineRepository{
    Posts:   posts,
    Users:   users,
    Follows: follows,
    Visibility: &VisibilityRepository{
      Users:   users,
      Follows: follows,
    },
    Signer: signer,
  }
}

func sampleWorld() (*fakeUsers, *fakeFollows, *fakePosts) {
  users := &fakeUsers{users: map[string]*models.User{
    "viewer":  {ID: "viewer", Username: "viewer", Name: "Viewer"},
    "alice":   {ID: "alice", Username: "alice", Name: "Alice", IsPrivate: true, Image: "user/alice/1/a.png"},
    "bob":     {ID: "bob", Username: "bob", Name: "Bob", IsPrivate: true},
    "charlie": {ID: "charlie", Username: "charlie", Name: "Charlie"},
  }}
  follows := &fakeFollows{edges: map[string][]string{
    "viewer": {"alice"},
  }}
  base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
  posts := &fakePosts{
    posts: []*models.Post{
      {ID: "a1", AuthorID: "alice", Content: "hello", Images: datatypes.JSONSlice[string]{"post/alice/0/1/pic.png"}, CreatedAt: base},
      {ID: "v1", AuthorID: "viewer", Content: "mine", CreatedAt: base.Add(-time.Minute)},
      {ID: "b1", AuthorID: "bob", Content: "secret", CreatedAt: base.Add(-2 * time.Minute)},
      {ID: "c1", AuthorID: "charlie", Content: "open", CreatedAt: base.Add(-3 * time.Minute)},
    },
    reactions: map[string]map[models.ReactionType]int64{
      "a1": {models.ReactionLike: 2, models.ReactionRetweet: 1},
    },
  }
  return users, follows, posts
}

func TestTimelineRestrictsToFollowedAndSelf(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  items, err := composer.Timeline("viewer", &CursorPagination{Limit: -1})
  if err != nil {
    t.Fatalf("timeline failed: %v", err)
  }
  if len(items) != 2 {
    t.Fatalf("expected 2 items, got %d", len(items))
  }
  if items[0].ID != "a1" || items[1].ID != "v1" {
    t.Fatalf("timeline order wrong: %s,%s", items[0].ID, items[1].ID)
  }
}

func TestTimelineExtendsItems(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  items, err := composer.Timeline("viewer", &CursorPagination{Limit: 1})
  if err != nil {
    t.Fatalf("timeline failed: %v", err)
  }
  item := items[0]
  if item.Author == nil || item.Author.Username != "alice" {
    t.Fatalf("author view missing: %+v", item.Author)
  }
  if !strings.HasPrefix(item.Images[0], "https://signed.example/") {
    t.Fatalf("image should be a signed url, got %q", item.Images[0])
  }
  if !strings.HasPrefix(item.Author.Image, "https://signed.example/") {
    t.Fatalf("avatar should be a signed url, got %q", item.Author.Image)
  }
  if item.QtyLikes != 2 || item.QtyRetweets != 1 {
    t.Fatalf("counts wrong: likes=%d retweets=%d", item.QtyLikes, item.QtyRetweets)
  }
}

func TestTimelineSignerFailureDiscardsPage(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{fail: true})

  if _, err := composer.Timeline("viewer", &CursorPagination{Limit: -1}); err == nil {
    t.Fatalf("expected signing failure to abort the page")
  } else {
    var signing *SigningError
    if !errors.As(err, &signing) {
      t.Fatalf("expected SigningError, got %v", err)
    }
  }
}

func TestTimelineVanishedAuthor(t *testing.T) {
  users, follows, posts := sampleWorld()
  delete(users.users, "alice")
  composer := newComposer(users, follows, posts, &fakeSigner{})

  _, err := composer.Timeline("viewer", &CursorPagination{Limit: -1})
  var notFound *NotFoundError
  if !errors.As(err, &notFound) || notFound.Kind != "author" {
    t.Fatalf("expected author not found, got %v", err)
  }
}

func TestPostsByAuthorGate(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  if _, err := composer.PostsByAuthor("viewer", "bob"); err == nil {
    t.Fatalf("private unfollowed author should not be listable")
  }
  if _, err := composer.PostsByAuthor("viewer", "alice"); err != nil {
    t.Fatalf("followed private author should be listable: %v", err)
  }
  if _, err := composer.PostsByAuthor("bob", "bob"); err != nil {
    t.Fatalf("owners always see their own posts: %v", err)
  }
}

func TestPostGate(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  if _, err := composer.Post("viewer", "missing"); err == nil {
    t.Fatalf("missing post should fail")
  }
  var notFound *NotFoundError
  _, err := composer.Post("viewer", "b1")
  if !errors.As(err, &notFound) {
    t.Fatalf("invisible post should read as not found, got %v", err)
  }
  if _, err := composer.Post("viewer", "c1"); err != nil {
    t.Fatalf("public post should be readable: %v", err)
  }
}

func TestPostsByIDsKeepsOrderAndDropsInvisible(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  items, err := composer.PostsByIDs("viewer", []string{"c1", "b1", "a1", "gone"})
  if err != nil {
    t.Fatalf("posts by ids failed: %v", err)
  }
  if len(items) != 2 {
    t.Fatalf("expected 2 visible items, got %d", len(items))
  }
  if items[0].ID != "c1" || items[1].ID != "a1" {
    t.Fatalf("ranked order not preserved: %s,%s", items[0].ID, items[1].ID)
  }
}

func TestCreatePostValidation(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  var validation *ValidationError
  if _, err := composer.CreatePost("viewer", &CreatePostPayload{Content: ""}); !errors.As(err, &validation) {
    t.Fatalf("empty content should fail validation, got %v", err)
  }
  long := strings.Repeat("ă", 241)
  if _, err := composer.CreatePost("viewer", &CreatePostPayload{Content: long}); !errors.As(err, &validation) {
    t.Fatalf("long content should fail validation, got %v", err)
  }
  if _, err := composer.CreatePost("viewer", &CreatePostPayload{Content: strings.Repeat("ă", 240)}); err != nil {
    t.Fatalf("240 runes are within the limit: %v", err)
  }
  many := &CreatePostPayload{Content: "ok", Images: []string{"a", "b", "c", "d", "e"}}
  if _, err := composer.CreatePost("viewer", many); !errors.As(err, &validation) {
    t.Fatalf("five images should fail validation, got %v", err)
  }
}

func TestCreatePostNamespacesKeys(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  item, err := composer.CreatePost("viewer", &CreatePostPayload{
    Content: "with pics",
    Images:  []string{"one.png", "two.jpg"},
  })
  if err != nil {
    t.Fatalf("create failed: %v", err)
  }

  stored := posts.created[len(posts.created)-1]
  for i, key := range stored.Images {
    if !strings.HasPrefix(key, fmt.Sprintf("post/viewer/%d/", i)) {
      t.Fatalf("key %d not namespaced: %q", i, key)
    }
  }
  if !strings.HasSuffix(stored.Images[0], "/one.png") || !strings.HasSuffix(stored.Images[1], "/two.jpg") {
    t.Fatalf("keys should keep the original names: %v", stored.Images)
  }
  for _, url := range item.Images {
    if !strings.HasPrefix(url, "https://upload.example/") {
      t.Fatalf("create response should carry write urls, got %q", url)
    }
  }
}

func TestCreateCommentUsesCommentNamespace(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  _, err := composer.CreatePost("viewer", &CreatePostPayload{
    Content:  "reply",
    ParentID: "a1",
    Images:   []string{"shot.png"},
  })
  if err != nil {
    t.Fatalf("create failed: %v", err)
  }
  stored := posts.created[len(posts.created)-1]
  if !strings.HasPrefix(stored.Images[0], "comment/viewer/0/") {
    t.Fatalf("comment keys use the comment namespace, got %q", stored.Images[0])
  }
}

func TestDeletePostOwnership(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  if _, err := composer.DeletePost("viewer", "missing"); err == nil {
    t.Fatalf("missing post should fail")
  }
  if _, err := composer.DeletePost("viewer", "a1"); !errors.Is(err, ErrForbidden) {
    t.Fatalf("deleting another user's post should be forbidden, got %v", err)
  }
  keys, err := composer.DeletePost("alice", "a1")
  if err != nil {
    t.Fatalf("owner delete failed: %v", err)
  }
  if len(keys) != 1 || keys[0] != "post/alice/0/1/pic.png" {
    t.Fatalf("delete should return the freed keys, got %v", keys)
  }
}

func TestLatestCommentsGate(t *testing.T) {
  users, follows, posts := sampleWorld()
  parent := "a1"
  posts.posts = append(posts.posts, &models.Post{
    ID:        "r1",
    AuthorID:  "bob",
    ParentID:  &parent,
    Content:   "bob reply",
    CreatedAt: time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
  })
  composer := newComposer(users, follows, posts, &fakeSigner{})

  if _, err := composer.LatestComments("viewer", "bob", &CursorPagination{Limit: -1}); err == nil {
    t.Fatalf("private unfollowed author's comments should be hidden")
  }
  items, err := composer.LatestComments("bob", "bob", &CursorPagination{Limit: -1})
  if err != nil {
    t.Fatalf("own comments should list: %v", err)
  }
  if len(items) != 1 || items[0].ID != "r1" {
    t.Fatalf("expected bob's reply, got %+v", items)
  }
}

func TestCommentsByPostOrdersByEngagement(t *testing.T) {
  users, follows, posts := sampleWorld()
  parent := "c1"
  base := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
  posts.posts = append(posts.posts,
    &models.Post{ID: "r1", AuthorID: "charlie", ParentID: &parent, Content: "old quiet", CreatedAt: base},
    &models.Post{ID: "r2", AuthorID: "charlie", ParentID: &parent, Content: "loud", CreatedAt: base.Add(-time.Minute)},
    &models.Post{ID: "r3", AuthorID: "charlie", ParentID: &parent, Content: "new quiet", CreatedAt: base.Add(time.Minute)},
  )
  posts.reactions["r2"] = map[models.ReactionType]int64{models.ReactionLike: 5}
  composer := newComposer(users, follows, posts, &fakeSigner{})

  items, err := composer.CommentsByPost("c1", &CursorPagination{Limit: -1})
  if err != nil {
    t.Fatalf("comments failed: %v", err)
  }
  if len(items) != 3 {
    t.Fatalf("expected 3 comments, got %d", len(items))
  }
  if items[0].ID != "r2" || items[1].ID != "r3" || items[2].ID != "r1" {
    t.Fatalf("engagement order wrong: %s,%s,%s", items[0].ID, items[1].ID, items[2].ID)
  }
}
