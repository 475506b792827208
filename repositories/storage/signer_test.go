package storage

import (
  "testing"
)

func TestContentType(t *testing.T) {
  tests := []struct {
    key  string
    want string
  }{
    {"post/u1/0/123/picture.png", "image/png"},
    {"post/u1/0/123/clip.gif", "image/gif"},
    {"post/u1/1/123/photo.jpg", "image/jpeg"},
    {"user/u1/123/avatar.webp", "image/webp"},
    {"post/u1/0/123/noextension", "image/jpeg"},
    {"post/u1/0/123/strange.xyz", "image/jpeg"},
  }
  for _, tt := range tests {
    if got := ContentType(tt.key); got != tt.want {
      t.Errorf("ContentType(%q) = %q, want %q", tt.key, got, tt.want)
    }
  }
}
