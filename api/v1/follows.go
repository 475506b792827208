package v1

import (
  "errors"
  "net/http"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/repositories"
)

type FollowsHandler struct {
  ApiContext        *common.ApiContext
  UsersRepository   *repositories.UsersRepository
  FollowsRepository *repositories.FollowsRepository
}

func NewFollowsRouter(apiContext *common.ApiContext) http.Handler {
  h := FollowsHandler{
    ApiContext: apiContext,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  h.FollowsRepository = &repositories.FollowsRepository{
    Db: h.ApiContext.Db,
  }

  r := chi.NewRouter()
  r.Post("/{userId}", h.Create)
  r.Delete("/{userId}", h.Delete)

  return r
}

func (h *FollowsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  followerID := api.UserID(r)
  followedID := chi.URLParam(r, "userId")
  if followerID == followedID {
    response.Error(http.StatusBadRequest, 1004, "cannot follow yourself")
    return
  }
  if _, err := h.UsersRepository.Find(followedID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      response.Error(http.StatusNotFound, 1003, "user not exists")
      return
    }
    response.Abort(err)
    return
  }

  if _, err := h.FollowsRepository.Create(followerID, followedID); err != nil {
    response.Abort(err)
    return
  }
  response.Created(nil)
}

func (h *FollowsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  if err := h.FollowsRepository.Delete(api.UserID(r), chi.URLParam(r, "userId")); err != nil {
    response.Abort(err)
    return
  }
  response.Json(nil)
}
