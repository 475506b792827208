package repositories

import (
  "testing"
  "time"

  "social.local/twitter-api/models"
)

func TestAnchorMustBelongToListing(t *testing.T) {
  parent := "p1"
  root := &models.Post{ID: "x1", AuthorID: "alice"}
  reply := &models.Post{ID: "x2", AuthorID: "alice", ParentID: &parent}

  if !timelineAnchor(root, []string{"alice", "viewer"}) {
    t.Errorf("root post by a feed author should anchor the timeline")
  }
  if timelineAnchor(root, []string{"viewer"}) {
    t.Errorf("post by an author outside the feed should not anchor")
  }
  if timelineAnchor(reply, []string{"alice"}) {
    t.Errorf("a comment should not anchor the timeline")
  }

  if !commentsAnchor(reply, "p1") {
    t.Errorf("comment of the listed post should anchor")
  }
  if commentsAnchor(reply, "p2") {
    t.Errorf("comment of another thread should not anchor")
  }
  if commentsAnchor(root, "p1") {
    t.Errorf("a root post should not anchor a comment listing")
  }

  if !authorCommentsAnchor(reply, "alice") {
    t.Errorf("author's own comment should anchor")
  }
  if authorCommentsAnchor(reply, "bob") {
    t.Errorf("another author's comment should not anchor")
  }
  if authorCommentsAnchor(root, "alice") {
    t.Errorf("a root post should not anchor the author's comment listing")
  }
}

func TestTimelineForeignCursorYieldsEmptyPage(t *testing.T) {
  users, follows, posts := sampleWorld()
  composer := newComposer(users, follows, posts, &fakeSigner{})

  // b1 exists but belongs to an author outside the viewer's feed, so
  // it can never window this listing.
  items, err := composer.Timeline("viewer", &CursorPagination{Limit: -1, After: "b1"})
  if err != nil {
    t.Fatalf("timeline failed: %v", err)
  }
  if len(items) != 0 {
    t.Fatalf("foreign cursor should yield an empty page, got %d items", len(items))
  }
}

func TestCommentsForeignCursorYieldsEmptyPage(t *testing.T) {
  users, follows, posts := sampleWorld()
  parentA := "a1"
  parentC := "c1"
  base := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
  posts.posts = append(posts.posts,
    &models.Post{ID: "ra", AuthorID: "alice", ParentID: &parentA, Content: "on a1", CreatedAt: base},
    &models.Post{ID: "rc", AuthorID: "charlie", ParentID: &parentC, Content: "on c1", CreatedAt: base.Add(-time.Minute)},
  )
  composer := newComposer(users, follows, posts, &fakeSigner{})

  items, err := composer.CommentsByPost("c1", &CursorPagination{Limit: -1, After: "ra"})
  if err != nil {
    t.Fatalf("comments failed: %v", err)
  }
  if len(items) != 0 {
    t.Fatalf("cursor from another thread should yield an empty page, got %d items", len(items))
  }

  items, err = composer.CommentsByPost("c1", &CursorPagination{Limit: -1, Before: "a1"})
  if err != nil {
    t.Fatalf("comments failed: %v", err)
  }
  if len(items) != 0 {
    t.Fatalf("root post cursor should yield an empty page, got %d items", len(items))
  }
}
