package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/pkg/hash"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// Категории файлов — префиксы ключей в бакете.
const (
	CategoryAssignments         = "assignments"
	CategoryDocuments           = "documents"
	CategorySupervisorDocuments = "supervisor-documents"
)

type UploadRequest struct {
	Category    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredFile struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// FileStorage загружает файл и возвращает URL, который сохраняется в записи.
type FileStorage interface {
	Upload(ctx context.Context, req *UploadRequest) (*StoredFile, error)
	Delete(ctx context.Context, key string) error
}

type MinIOStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	PublicURL string
	URLExpiry time.Duration
	Timeout   time.Duration
}

type minioStorage struct {
	client *minio.Client
	cfg    MinIOStorageConfig
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIOStorage(cfg MinIOStorageConfig, logger zerolog.Logger) (FileStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &minioStorage{
		client: client,
		cfg:    cfg,
		logger: logger,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// MinIO может подняться позже сервиса: бакет создастся при первой загрузке.
	if err := s.ensureBucket(ctx); err != nil {
		logger.Warn().
			Err(err).
			Str("endpoint", cfg.Endpoint).
			Str("bucket", cfg.Bucket).
			Msg("MinIO not ready during startup")
	}

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.Bucket).
		Bool("ssl", cfg.UseSSL).
		Msg("Connected to MinIO")

	return s, nil
}

func (s *minioStorage) ensureBucket(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info().Str("bucket", s.cfg.Bucket).Msg("Created new bucket")
	}

	s.bucketEnsured = true
	return nil
}

func (s *minioStorage) Upload(ctx context.Context, req *UploadRequest) (*StoredFile, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	digest, err := hash.NewDigest(hash.SHA256)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(req.Category, req.FileName)
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, digest.Wrap(req.Body), req.Size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-name": req.FileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	url, err := s.url(ctx, key)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("bucket", s.cfg.Bucket).
		Str("key", key).
		Str("etag", info.ETag).
		Int64("size", info.Size).
		Msg("File uploaded to MinIO")

	return &StoredFile{
		Key:  key,
		URL:  url,
		Hash: digest.Sum(),
		Size: info.Size,
	}, nil
}

// url: публичный адрес, если он настроен, иначе presigned GET.
func (s *minioStorage) url(ctx context.Context, key string) (string, error) {
	if s.cfg.PublicURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicURL, "/"), s.cfg.Bucket, key), nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.URLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

func (s *minioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ObjectKey строит ключ вида {category}/{uuid}{ext}.
func ObjectKey(category, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", category, uuid.New().String(), ext)
}

type disabledStorage struct{}

// NewDisabledStorage отвечает ErrStorageDisabled на любую загрузку.
func NewDisabledStorage() FileStorage {
	return disabledStorage{}
}

func (disabledStorage) Upload(ctx context.Context, req *UploadRequest) (*StoredFile, error) {
	return nil, models.ErrStorageDisabled
}

func (disabledStorage) Delete(ctx context.Context, key string) error {
	return models.ErrStorageDisabled
}

// MemoryStorage держит файлы в памяти; используется в тестах и локальном режиме.
type MemoryStorage struct {
	mu      sync.Mutex
	BaseURL string
	objects map[string][]byte
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Upload(ctx context.Context, req *UploadRequest) (*StoredFile, error) {
	digest, err := hash.NewDigest(hash.SHA256)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, digest.Wrap(req.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	key := ObjectKey(req.Category, req.FileName)

	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()

	return &StoredFile{
		Key:  key,
		URL:  m.BaseURL + "/" + key,
		Hash: digest.Sum(),
		Size: n,
	}, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStorage) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
