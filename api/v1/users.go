package v1

import (
  "crypto/md5"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "strconv"
  "time"
  "unicode/utf8"

  "github.com/go-chi/chi/v5"
  "gorm.io/gorm"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
  "social.local/twitter-api/config"
  "social.local/twitter-api/models"
  "social.local/twitter-api/repositories"
)

type UsersHandler struct {
  ApiContext        *common.ApiContext
  Signer            repositories.Signer
  UsersRepository   *repositories.UsersRepository
  FollowsRepository *repositories.FollowsRepository
}

func NewUsersRouter(apiContext *common.ApiContext, signer repositories.Signer) http.Handler {
  h := UsersHandler{
    ApiContext: apiContext,
    Signer:     signer,
  }
  h.UsersRepository = &repositories.UsersRepository{
    Db: h.ApiContext.Db,
  }
  h.FollowsRepository = &repositories.FollowsRepository{
    Db: h.ApiContext.Db,
  }

  r := chi.NewRouter()
  r.Get("/", h.Listings)
  r.Get("/recommendations", h.Recommendations)
  r.Get("/{id}", h.Profile)
  r.Patch("/", h.Update)
  r.Delete("/", h.Delete)

  return r
}

func (h *UsersHandler) Listings(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  current, pageSize, ok := h.pageParams(response, r)
  if !ok {
    return
  }

  conditions := map[string]interface{}{}
  if username := r.URL.Query().Get("username"); username != "" {
    conditions["username"] = username
  }

  users := h.UsersRepository.Listings(conditions, current, pageSize)
  views := make([]*repositories.UserView, len(users))
  for i, user := range users {
    view, err := h.view(user)
    if err != nil {
      response.Abort(err)
      return
    }
    views[i] = view
  }
  response.Pagenate(views, h.count(conditions), current, pageSize)
}

func (h *UsersHandler) Recommendations(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  current, pageSize, ok := h.pageParams(response, r)
  if !ok {
    return
  }

  users := h.UsersRepository.Recommended(current, pageSize)
  views := make([]*repositories.UserView, len(users))
  for i, user := range users {
    view, err := h.view(user)
    if err != nil {
      response.Abort(err)
      return
    }
    views[i] = view
  }
  response.Pagenate(views, h.count(map[string]interface{}{}), current, pageSize)
}

func (h *UsersHandler) Profile(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  id := chi.URLParam(r, "id")
  user, err := h.UsersRepository.Find(id)
  if errors.Is(err, gorm.ErrRecordNotFound) {
    response.Error(http.StatusNotFound, 1003, "user not exists")
    return
  }
  if err != nil {
    response.Abort(err)
    return
  }

  view, err := h.view(user)
  if err != nil {
    response.Abort(err)
    return
  }
  profile := &ProfileInfo{
    UserView:  view,
    Biography: user.Biography,
  }
  if viewerID := api.UserID(r); viewerID != user.ID {
    follow := false
    if _, err = h.FollowsRepository.Get(viewerID, user.ID); err == nil {
      follow = true
    } else if !errors.Is(err, gorm.ErrRecordNotFound) {
      response.Abort(err)
      return
    }
    profile.Follow = &follow
  }
  response.Json(profile)
}

// Update answers with a signed put url when the payload carries a new
// avatar name, mirroring the post image flow: the stored value is the
// storage key, the client uploads against the url afterwards.
func (h *UsersHandler) Update(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  var payload *UpdateProfilePayload
  if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
    response.Error(http.StatusBadRequest, 1004, "payload not valid")
    return
  }
  if utf8.RuneCountInString(payload.Biography) > config.POST_CONTENT_LIMIT {
    response.Error(http.StatusBadRequest, 1004, fmt.Sprintf("biography must be at most %d characters", config.POST_CONTENT_LIMIT))
    return
  }

  userID := api.UserID(r)
  user, err := h.UsersRepository.Find(userID)
  if err != nil {
    response.Abort(err)
    return
  }

  values := map[string]interface{}{}
  if payload.Name != "" {
    values["name"] = payload.Name
  }
  if payload.Biography != "" {
    values["biography"] = payload.Biography
  }
  if payload.IsPrivate != nil {
    values["is_private"] = *payload.IsPrivate
  }

  uploadURL := ""
  if payload.Image != "" {
    key := fmt.Sprintf("user/%s/%d/%s", userID, time.Now().UnixMilli(), payload.Image)
    if uploadURL, err = h.Signer.SignPut(key); err != nil {
      response.Abort(err)
      return
    }
    values["image"] = key
  }

  if len(values) > 0 {
    if err = h.UsersRepository.Updates(user, values); err != nil {
      response.Abort(err)
      return
    }
  }
  response.Json(map[string]interface{}{
    "upload_url": uploadURL,
  })
}

func (h *UsersHandler) Delete(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }

  if err := h.UsersRepository.Delete(api.UserID(r)); err != nil {
    response.Abort(err)
    return
  }
  response.Json(nil)
}

func (h *UsersHandler) pageParams(response *api.ResponseHandler, r *http.Request) (current int, pageSize int, ok bool) {
  var err error
  if current, err = strconv.Atoi(r.URL.Query().Get("current")); err != nil || current < 1 {
    response.Error(http.StatusBadRequest, 1004, "current not valid")
    return 0, 0, false
  }
  if pageSize, err = strconv.Atoi(r.URL.Query().Get("page_size")); err != nil || pageSize < 1 {
    response.Error(http.StatusBadRequest, 1004, "page_size not valid")
    return 0, 0, false
  }
  return current, pageSize, true
}

// count goes through a short lived redis cache keyed by the hash of
// the search conditions, so repeated listings of the same filter skip
// the table scan.
func (h *UsersHandler) count(conditions map[string]interface{}) int64 {
  data, _ := json.Marshal(conditions)
  redisKey := fmt.Sprintf(config.REDIS_KEY_USERS_COUNT, fmt.Sprintf("%x", md5.Sum(data)))
  if cached, err := h.ApiContext.Rdb.Get(h.ApiContext.Ctx, redisKey).Int64(); err == nil {
    return cached
  }
  total := h.UsersRepository.Count(conditions)
  h.ApiContext.Rdb.SetEX(h.ApiContext.Ctx, redisKey, total, 30*time.Second)
  return total
}

func (h *UsersHandler) view(user *models.User) (*repositories.UserView, error) {
  view := &repositories.UserView{
    ID:        user.ID,
    Username:  user.Username,
    Name:      user.Name,
    IsPrivate: user.IsPrivate,
    CreatedAt: user.CreatedAt,
  }
  if user.Image != "" {
    var err error
    if view.Image, err = h.Signer.SignGet(user.Image); err != nil {
      return nil, err
    }
  }
  return view, nil
}
