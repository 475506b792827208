package jwt

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/go-redis/redis/v8"
  "github.com/golang-jwt/jwt/v5"
  "github.com/rs/xid"

  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
)

type TokenRepository struct {
  Rdb *redis.Client
  Ctx context.Context
}

func (r *TokenRepository) AccessToken(userID string) (string, error) {
  ttl := common.GetEnvInt("JWT_ACCESS_TTL")
  if ttl <= 0 {
    ttl = 900
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
    "sub": userID,
    "exp": time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
    "iat": time.Now().Unix(),
  })
  return token.SignedString([]byte(common.GetEnvString("JWT_SECRET")))
}

// RefreshToken carries a redis-backed token id, so refresh tokens can
// be revoked ahead of their expiry.
func (r *TokenRepository) RefreshToken(userID string) (string, error) {
  ttl := common.GetEnvInt("JWT_REFRESH_TTL")
  if ttl <= 0 {
    ttl = 2592000
  }
  jti := xid.New().String()
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
    "sub": userID,
    "jti": jti,
    "exp": time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
    "iat": time.Now().Unix(),
  })
  signed, err := token.SignedString([]byte(common.GetEnvString("JWT_SECRET")))
  if err != nil {
    return "", err
  }
  err = r.Rdb.SetEX(
    r.Ctx,
    fmt.Sprintf(config.REDIS_KEY_TOKENS_REFRESH, jti),
    userID,
    time.Duration(ttl)*time.Second,
  ).Err()
  if err != nil {
    return "", err
  }
  return signed, nil
}

func (r *TokenRepository) Verify(tokenString string) (userID string, err error) {
  token, err := jwt.Parse(
    tokenString,
    func(t *jwt.Token) (interface{}, error) {
      return []byte(common.GetEnvString("JWT_SECRET")), nil
    },
    jwt.WithValidMethods([]string{"HS256"}),
  )
  if err != nil {
    return "", err
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return "", errors.New("token claims not valid")
  }
  return claims.GetSubject()
}

// Refresh verifies a refresh token against the redis allow-list and
// issues a fresh access token.
func (r *TokenRepository) Refresh(tokenString string) (string, error) {
  token, err := jwt.Parse(
    tokenString,
    func(t *jwt.Token) (interface{}, error) {
      return []byte(common.GetEnvString("JWT_SECRET")), nil
    },
    jwt.WithValidMethods([]string{"HS256"}),
  )
  if err != nil {
    return "", err
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return "", errors.New("token claims not valid")
  }
  jti, _ := claims["jti"].(string)
  if jti == "" {
    return "", errors.New("refresh token id missing")
  }
  userID, err := r.Rdb.Get(r.Ctx, fmt.Sprintf(config.REDIS_KEY_TOKENS_REFRESH, jti)).Result()
  if errors.Is(err, redis.Nil) {
    return "", errors.New("refresh token revoked")
  }
  if err != nil {
    return "", err
  }
  return r.AccessToken(userID)
}
