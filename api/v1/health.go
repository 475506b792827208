package v1

import (
  "net/http"

  "github.com/go-chi/chi/v5"

  "social.local/twitter-api/api"
  "social.local/twitter-api/common"
)

type HealthHandler struct {
  ApiContext *common.ApiContext
}

func NewHealthRouter(apiContext *common.ApiContext) http.Handler {
  h := HealthHandler{
    ApiContext: apiContext,
  }

  r := chi.NewRouter()
  r.Get("/", h.Show)

  return r
}

func (h *HealthHandler) Show(
  w http.ResponseWriter,
  r *http.Request,
) {
  response := &api.ResponseHandler{
    Writer: w,
  }
  response.Json(map[string]interface{}{
    "status": "ok",
  })
}
