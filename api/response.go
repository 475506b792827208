package api

import (
  "encoding/json"
  "errors"
  "net/http"

  "social.local/twitter-api/repositories"
)

type ResponseHandler struct {
  Writer http.ResponseWriter
}

func (h *ResponseHandler) Json(data interface{}) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": true,
    "data":    data,
  })
}

func (h *ResponseHandler) Created(data interface{}) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusCreated)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": true,
    "data":    data,
  })
}

func (h *ResponseHandler) Pagenate(data interface{}, total int64, current int, pageSize int) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(http.StatusOK)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success":   true,
    "data":      data,
    "total":     total,
    "current":   current,
    "page_size": pageSize,
  })
}

func (h *ResponseHandler) Error(status int, code int, message string) {
  h.Writer.Header().Set("Content-Type", "application/json")
  h.Writer.WriteHeader(status)
  json.NewEncoder(h.Writer).Encode(map[string]interface{}{
    "success": false,
    "code":    code,
    "message": message,
  })
}

// Abort maps domain failures onto their http shape.
func (h *ResponseHandler) Abort(err error) {
  var validation *repositories.ValidationError
  if errors.As(err, &validation) {
    h.Error(http.StatusBadRequest, 1004, validation.Message)
    return
  }
  var notFound *repositories.NotFoundError
  if errors.As(err, &notFound) {
    h.Error(http.StatusNotFound, 1003, notFound.Error())
    return
  }
  if errors.Is(err, repositories.ErrForbidden) {
    h.Error(http.StatusForbidden, 1006, "forbidden")
    return
  }
  if errors.Is(err, repositories.ErrConflict) {
    h.Error(http.StatusConflict, 1009, "conflict")
    return
  }
  var signing *repositories.SigningError
  if errors.As(err, &signing) {
    h.Error(http.StatusBadGateway, 1500, "storage signing failed")
    return
  }
  h.Error(http.StatusInternalServerError, 1001, err.Error())
}
