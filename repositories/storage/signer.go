package storage

import (
  "context"
  "path"
  "strings"
  "time"

  "github.com/aws/aws-sdk-go-v2/aws"
  awsconfig "github.com/aws/aws-sdk-go-v2/config"
  "github.com/aws/aws-sdk-go-v2/service/s3"
  "github.com/h2non/filetype"
  "github.com/h2non/filetype/types"

  "social.local/twitter-api/common"
  "social.local/twitter-api/repositories"
)

// SignerRepository turns stored object keys into time-boxed signed
// URLs. It holds no state beyond the S3 clients and never retries; a
// caller that wants retries wraps it.
type SignerRepository struct {
  Client  *s3.Client
  Presign *s3.PresignClient
  Ctx     context.Context
  Bucket  string
  TTL     time.Duration
}

func NewSigner(ctx context.Context) *SignerRepository {
  cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(common.GetEnvString("STORAGE_REGION")))
  if err != nil {
    panic(err)
  }
  client := s3.NewFromConfig(cfg)
  ttl := common.GetEnvInt("STORAGE_SIGN_TTL")
  if ttl <= 0 {
    ttl = 120
  }
  return &SignerRepository{
    Client:  client,
    Presign: s3.NewPresignClient(client),
    Ctx:     ctx,
    Bucket:  common.GetEnvString("STORAGE_BUCKET"),
    TTL:     time.Duration(ttl) * time.Second,
  }
}

func (r *SignerRepository) SignGet(key string) (string, error) {
  request, err := r.Presign.PresignGetObject(
    r.Ctx,
    &s3.GetObjectInput{
      Bucket: aws.String(r.Bucket),
      Key:    aws.String(key),
    },
    s3.WithPresignExpires(r.TTL),
  )
  if err != nil {
    return "", &repositories.SigningError{Err: err}
  }
  return request.URL, nil
}

func (r *SignerRepository) SignPut(key string) (string, error) {
  request, err := r.Presign.PresignPutObject(
    r.Ctx,
    &s3.PutObjectInput{
      Bucket:      aws.String(r.Bucket),
      Key:         aws.String(key),
      ContentType: aws.String(ContentType(key)),
    },
    s3.WithPresignExpires(r.TTL),
  )
  if err != nil {
    return "", &repositories.SigningError{Err: err}
  }
  return request.URL, nil
}

func (r *SignerRepository) Remove(key string) (err error) {
  _, err = r.Client.DeleteObject(r.Ctx, &s3.DeleteObjectInput{
    Bucket: aws.String(r.Bucket),
    Key:    aws.String(key),
  })
  return
}

// ContentType derives the MIME type pinned into write URLs from the
// key's file extension, defaulting to jpeg for unknown extensions.
func ContentType(key string) string {
  ext := strings.TrimPrefix(path.Ext(key), ".")
  kind := filetype.GetType(ext)
  if kind == types.Unknown {
    return "image/jpeg"
  }
  return kind.MIME.Value
}
