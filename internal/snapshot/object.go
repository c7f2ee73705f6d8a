// internal/snapshot/object.go
package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/payalnyahorobets-create/ppynlnya/internal/config"
)

// ObjectStore keeps the snapshot document as one object in an S3-compatible
// bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
	key    string
}

func NewObjectStore(cfg config.ObjectConfig, key string) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("object storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket must be provided")
	}
	if key == "" {
		key = "snapshots/state.json"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, key: key}, nil
}

func (o *ObjectStore) Save(ctx context.Context, doc []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, o.key, bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot object: %w", err)
	}
	return nil
}

func (o *ObjectStore) Load(ctx context.Context) ([]byte, bool, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("fetch snapshot object: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot object: %w", err)
	}
	return buf.Bytes(), true, nil
}
