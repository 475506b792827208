package v1

import (
  "encoding/json"
  "errors"
  "net/http"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/repositories"
  jwtRepositories "social.local/twitter-api/repositories/jwt"
)

type AuthHandler struct {
  ApiContext      *common.ApiContext
  UsersRepository *repositories.UsersRepository
  TokenRepository *jwtRepositories.TokenRepository
}

func NewAuthRouter(apiContext *common.ApiContext) http.Handler {
  h := AuthHandler{
    ApiContext: apiContext,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  h.TokenRepository = &jwtRepositories.TokenRepository{
    Rdb: h.ApiContext.Rdb,
    Ctx: h.ApiContext.Ctx,
  }

  r := chi.NewRouter()
  r.Post("/signup", h.Signup)
  r.Post("/login", h.Login)
  r.Post("/refresh", h.Refresh)

  return r
}

func (h *AuthHandler) Signup(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *SignupPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  if payload.Username == "" || payload.Email == "" || payload.Password == "" {
    response.Error(http.StatusBadRequest, 1004, "username, email and password are required")
    return
  }

  if _, err := h.UsersRepository.GetByEmailOrUsername(payload.Email, payload.Username); err == nil {
    response.Error(http.StatusConflict, 1009, "user already exists")
    return
  } else if !errors.Is(err, gorm.ErrRecordNotFound) {
    response.Abort(err)
    return
  }

  user, err := h.UsersRepository.Create(payload.Username, payload.Email, payload.Password)
  if err != nil {
    response.Abort(err)
    return
  }

  tokens, err := h.tokens(user.ID)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Created(tokens)
}

func (h *AuthHandler) Login(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *LoginPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  if payload.Password == "" || (payload.Email == "" && payload.Username == "") {
    response.Error(http.StatusBadRequest, 1004, "credentials are required")
    return
  }

  user, err := h.UsersRepository.GetByEmailOrUsername(payload.Email, payload.Username)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    response.Error(http.StatusForbidden, 1000, "user not exists")
    return
  }
  if err != nil {
    response.Abort(err)
    return
  }
  if !common.VerifyPassword(payload.Password, user.Salt, user.Password) {
    response.Error(http.StatusForbidden, 1000, "password is wrong")
    return
  }

  tokens, err := h.tokens(user.ID)
  if err != nil {
    response.Abort(err)
    return
  }
  response.Json(tokens)
}

func (h *AuthHandler) Refresh(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *RefreshPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil || payload.RefreshToken == "" {
    response.Error(http.StatusBadRequest, 1004, "refresh token is required")
    return
  }

  accessToken, err := h.TokenRepository.Refresh(payload.RefreshToken)
  if err != nil {
    response.Error(http.StatusForbidden, 1000, "refresh token not valid")
    return
  }
  response.Json(&TokenInfo{
    AccessToken: accessToken,
  })
}

func (h *AuthHandler) tokens(userID string) (*TokenInfo, error) {
  accessToken, err := h.TokenRepository.AccessToken(userID)
  if err != nil {
    return nil, err
  }
  refreshToken, err := h.TokenRepository.RefreshToken(userID)
  if err != nil {
    return nil, err
  }
  return &TokenInfo{
    AccessToken:  accessToken,
    RefreshToken: refreshToken,
  }, nil
}
