package repositories

import (
  "time"

  "social.local/twitter-api/models"
)

// CursorPagination carries the raw paging options of a listing request.
// Limit below zero means the caller did not bound the page.
type CursorPagination struct {
  Limit  int
  Before string
  After  string
}

// AnchorID returns the cursor the window anchors on. After wins when
// both cursors are present.
func (p *CursorPagination) AnchorID() string {
  if p.After != "" {
    return p.After
  }
  return p.Before
}

// PageAnchor is the resolved cursor row. Engagement is only populated
// for engagement-ordered listings.
type PageAnchor struct {
  ID         string
  CreatedAt  time.Time
  Engagement int64
}

type PageWindow struct {
  Anchor  *PageAnchor
  Reverse bool
  Limit   int
}

func (p *CursorPagination) Window(anchor *PageAnchor) *PageWindow {
  return &PageWindow{
    Anchor:  anchor,
    Reverse: p.After == "" && p.Before != "",
    Limit:   p.Limit,
  }
}

// Paginate slices rows that are already sorted in forward page order.
// The anchor row itself is excluded. A before-window takes the rows
// immediately ahead of the anchor, so the output stays in forward
// order regardless of walk direction. Used by in-memory stores; the
// SQL store expresses the same window as comparisons in posts.go.
func (w *PageWindow) Paginate(rows []*models.Post) []*models.Post {
  if w.Limit == 0 {
    return []*models.Post{}
  }

  start := 0
  end := len(rows)

  if w.Anchor != nil {
    idx := -1
    for i, row := range rows {
      if row.ID == w.Anchor.ID {
        idx = i
        break
      }
    }
    if idx < 0 {
      return []*models.Post{}
    }
    if w.Reverse {
      end = idx
      if w.Limit > 0 && end-w.Limit > start {
        start = end - w.Limit
      }
      return rows[start:end]
    }
    start = idx + 1
    end = len(rows)
  }

  if w.Limit > 0 && start+w.Limit < end {
    end = start + w.Limit
  }
  return rows[start:end]
}
