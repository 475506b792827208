package v1

import (
  "encoding/json"
  "errors"
  "net/http"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/models"
  "social.local/twitter-api/repositories"
)

type ReactionsHandler struct {
  ApiContext           *common.ApiContext
  PostsRepository      *repositories.PostsRepository
  ReactionsRepository  *repositories.ReactionsRepository
  VisibilityRepository *repositories.VisibilityRepository
}

func NewReactionsRouter(
  apiContext *common.ApiContext,
  ansqContext *common.AnsqClientContext,
) http.Handler {
  h := ReactionsHandler{
    ApiContext: apiContext,
  }
  h.PostsRepository = &repositories.PostsRepository{
    Db:   h.ApiContext.Db,
    Nats: ansqContext.Nats,
  }
  h.ReactionsRepository = &repositories.ReactionsRepository{
    Db:   h.ApiContext.Db,
    Nats: ansqContext.Nats,
  }
  h.VisibilityRepository = &repositories.VisibilityRepository{
    Users: &repositories.UsersRepository{
      Db: h.ApiContext.Db,
    },
    Follows: &repositories.FollowsRepository{
      Db: h.ApiContext.Db,
    },
  }

  r := chi.NewRouter()
  r.Post("/{postId}", h.Create)
  r.Delete("/{postId}", h.Delete)
  r.Get("/user/{userId}", h.ByUser)

  return r
}

func (h *ReactionsHandler) Create(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *ReactionPayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  kind, ok := h.kind(response, payload.Type)
  if !ok {
    return
  }

  userID := api.UserID(r)
  postID := chi.URLParam(r, "postId")
  post, err := h.PostsRepository.Find(postID)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    response.Error(http.StatusNotFound, 1003, "post not exists")
    return
  }
  if err != nil {
    response.Abort(err)
    return
  }
  visible, err := h.VisibilityRepository.CanView(userID, post.AuthorID)
  if err != nil {
    response.Abort(err)
    return
  }
  if !visible {
    response.Error(http.StatusNotFound, 1003, "post not exists")
    return
  }

  if _, err = h.ReactionsRepository.Create(userID, postID, kind); err != nil {
    response.Abort(err)
    return
  }
  response.Created(nil)
}

func (h *ReactionsHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  kind, ok := h.kind(response, r.URL.Query().Get("type"))
  if !ok {
    return
  }

  if err := h.ReactionsRepository.Delete(api.UserID(r), chi.URLParam(r, "postId"), kind); err != nil {
    response.Abort(err)
    return
  }
  response.Json(nil)
}

func (h *ReactionsHandler) ByUser(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  viewerID := api.UserID(r)
  userID := chi.URLParam(r, "userId")
  if viewerID != userID {
    visible, err := h.VisibilityRepository.CanView(viewerID, userID)
    if err != nil {
      response.Abort(err)
      return
    }
    if !visible {
      response.Error(http.StatusNotFound, 1003, "user not exists")
      return
    }
  }

  kind := models.ReactionType(r.URL.Query().Get("type"))
  if kind != "" && kind != models.ReactionLike && kind != models.ReactionRetweet {
    response.Error(http.StatusBadRequest, 1004, "type not valid")
    return
  }

  reactions := h.ReactionsRepository.Listings(userID, kind)
  views := make([]*ReactionInfo, len(reactions))
  for i, reaction := range reactions {
    views[i] = &ReactionInfo{
      ID:        reaction.ID,
      PostID:    reaction.PostID,
      Type:      string(reaction.Type),
      CreatedAt: reaction.CreatedAt,
    }
  }
  response.Json(views)
}

func (h *ReactionsHandler) kind(response *api.ResponseHandler, value string) (models.ReactionType, bool) {
  kind := models.ReactionType(value)
  if kind != models.ReactionLike && kind != models.ReactionRetweet {
    response.Error(http.StatusBadRequest, 1004, "type not valid")
    return "", false
  }
  return kind, true
}
