package binstore

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oklog/ulid"

	"github.com/ridgeline/mediavault/pkg/configs"
	"github.com/ridgeline/mediavault/pkg/internal/imgproc"
	nlog "github.com/ridgeline/mediavault/pkg/log"
)

// S3Store keeps image bytes in an S3-compatible bucket via MinIO.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewS3Store initializes the MinIO client and ensures the bucket exists.
func NewS3Store(ctx context.Context, cfg configs.S3Config) (*S3Store, error) {
	endpoint := cfg.Endpoint
	// allow a full-schema endpoint (http:// or https://)
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("mediavault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.Bucket).Msg("bucket created")
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = cfg.GetEndpointURL() + "/" + cfg.Bucket
	}

	return &S3Store{
		client:  cli,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (s *S3Store) newKey(folder, format string) string {
	s.mu.Lock()
	id := ulid.MustNew(ulid.Now(), s.entropy)
	s.mu.Unlock()

	name := strings.ToLower(id.String()) + "." + format
	if folder == "" {
		return name
	}

	return path.Join(folder, name)
}

func (s *S3Store) Put(ctx context.Context, data []byte, opts PutOptions) (*Object, error) {
	width, height, err := imgproc.Probe(data, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("s3 store put: %w", err)
	}

	key := s.newKey(opts.Folder, opts.Format)

	putOpts := minio.PutObjectOptions{ContentType: MIMEForFormat(opts.Format)}
	if len(opts.Tags) > 0 {
		putOpts.UserTags = map[string]string{"tags": strings.Join(opts.Tags, ",")}
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), putOpts); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	objURL := s.baseURL + "/" + key

	return &Object{
		URL:       objURL,
		SecureURL: objURL,
		Width:     width,
		Height:    height,
		Format:    opts.Format,
		Bytes:     int64(len(data)),
	}, nil
}

func (s *S3Store) Remove(ctx context.Context, loc Locator) error {
	key, ok := strings.CutPrefix(loc.URL, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("s3 store remove: %q is outside base %q", loc.URL, s.baseURL)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}
