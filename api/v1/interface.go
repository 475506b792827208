package v1

import (
  "net/http"
  "strconv"
  "time"

  "social.local/twitter-api/repositories"
)

type SignupPayload struct {
  Username string `json:"username"`
  Email    string `json:"email"`
  Password string `json:"password"`
}

type LoginPayload struct {
  Email    string `json:"email"`
  Username string `json:"username"`
  Password string `json:"password"`
}

type RefreshPayload struct {
  RefreshToken string `json:"refresh_token"`
}

type TokenInfo struct {
  AccessToken  string `json:"access_token"`
  RefreshToken string `json:"refresh_token"`
}

type UpdateProfilePayload struct {
  Name      string `json:"name"`
  Biography string `json:"biography"`
  Image     string `json:"image"`
  IsPrivate *bool  `json:"isPrivate"`
}

type ProfileInfo struct {
  *repositories.UserView
  Biography string `json:"biography"`
  Follow    *bool  `json:"follow,omitempty"`
}

type ReactionPayload struct {
  Type string `json:"type"`
}

type CreateChatPayload struct {
  OtherUserID string `json:"otherUserId"`
}

type CreateMessagePayload struct {
  Content string `json:"content"`
}

type MessageInfo struct {
  ID        string    `json:"id"`
  ChatID    string    `json:"chatId"`
  SenderID  string    `json:"senderId"`
  Content   string    `json:"content"`
  CreatedAt time.Time `json:"createdAt"`
}

type ReactionInfo struct {
  ID        string    `json:"id"`
  PostID    string    `json:"postId"`
  Type      string    `json:"type"`
  CreatedAt time.Time `json:"createdAt"`
}

// Cursor paging options as carried on the query string. A missing
// limit leaves the page unbounded; after wins over before.
func parsePagination(r *http.Request) (*repositories.CursorPagination, bool) {
  pagination := &repositories.CursorPagination{
    Limit:  -1,
    Before: r.URL.Query().Get("before"),
    After:  r.URL.Query().Get("after"),
  }
  if r.URL.Query().Has("limit") {
    limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
    if err != nil || limit < 0 {
      return nil, false
    }
    pagination.Limit = limit
  }
  return pagination, true
}
