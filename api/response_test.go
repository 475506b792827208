package api

import (
  "encoding/json"
  "errors"
  "net/http/httptest"
  "testing"

  "social.local/twitter-api/repositories"
)

func TestAbortMapping(t *testing.T) {
  tests := []struct {
    name   string
    err    error
    status int
    code   float64
  }{
    {"validation", &repositories.ValidationError{Message: "bad"}, 400, 1004},
    {"not found", &repositories.NotFoundError{Kind: "post"}, 404, 1003},
    {"forbidden", repositories.ErrForbidden, 403, 1006},
    {"conflict", repositories.ErrConflict, 409, 1009},
    {"signing", &repositories.SigningError{Err: errors.New("s3 down")}, 502, 1500},
    {"unknown", errors.New("boom"), 500, 1001},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      w := httptest.NewRecorder()
      h := &ResponseHandler{Writer: w}
      h.Abort(tt.err)
      if w.Code != tt.status {
        t.Fatalf("status=%d, want %d", w.Code, tt.status)
      }
      var body map[string]interface{}
      if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
        t.Fatalf("decode body: %v", err)
      }
      if body["success"] != false {
        t.Fatalf("success should be false")
      }
      if body["code"] != tt.code {
        t.Fatalf("code=%v, want %v", body["code"], tt.code)
      }
    })
  }
}
