package api

import (
  "context"
  "net/http"
  "strings"

  jwtRepositories "social.local/twitter-api/repositories/jwt"
)

type contextKey int

const userKey contextKey = iota

func Authenticator(tokenRepository *jwtRepositories.TokenRepository) func(http.Handler) http.Handler {
  return func(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      response := &ResponseHandler{
        Writer: w,
      }
      header := r.Header.Get("Authorization")
      if !strings.HasPrefix(header, "Bearer ") {
        response.Error(http.StatusUnauthorized, 1000, "authorization required")
        return
      }
      userID, err := tokenRepository.Verify(strings.TrimPrefix(header, "Bearer "))
      if err != nil {
        response.Error(http.StatusUnauthorized, 1000, "token not valid")
        return
      }
      next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, userID)))
    })
  }
}

func UserID(r *http.Request) string {
  userID, _ := r.Context().Value(userKey).(string)
  return userID
}
