// Package storage stores project logos in an object store. Uploads are first
// written under StagingPrefix and promoted to their final key only once the
// warehouse transaction that references them has succeeded.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/google/uuid"
)

const (
	StagingPrefix = "staging/"
	LogoPrefix    = "logos/"
)

var ErrNotFound = errors.New("object not found")

// Object 列举结果
type Object struct {
	Key          string
	LastModified time.Time
}

// ObjectStore 对象存储最小接口
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	PublicURL(key string) string
}

// New 按 storage.driver 创建对象存储
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "s3":
		return NewS3Store(cfg)
	case "memory":
		logger.Warn("Using in-memory object storage, logos will not survive a restart")
		return NewMemoryStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// cleanFilename 只保留文件名部分
func cleanFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "logo"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// StagingKey 暂存 key: staging/<uuid>/<filename>
func StagingKey(filename string) string {
	return StagingPrefix + uuid.NewString() + "/" + cleanFilename(filename)
}

// LogoKey 最终 key: logos/<project-slug>-<hash>/<filename>。
// hash 取项目名 sha256 前 4 字节，"Foo" 与 "FOO" 不会互相覆盖。
func LogoKey(projectName, filename string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(projectName), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	sum := sha256.Sum256([]byte(projectName))
	return LogoPrefix + slug + "-" + hex.EncodeToString(sum[:4]) + "/" + cleanFilename(filename)
}

// Promote 将暂存对象复制到最终 key 并删除暂存对象。
// 删除暂存失败只记录日志，由清理任务兜底。
func Promote(ctx context.Context, store ObjectStore, stagedKey, finalKey string) error {
	if err := store.Copy(ctx, stagedKey, finalKey); err != nil {
		return fmt.Errorf("copy %s to %s: %w", stagedKey, finalKey, err)
	}
	if err := store.Delete(ctx, stagedKey); err != nil {
		logger.Warn("Failed to delete staged object %s after promotion: %v", stagedKey, err)
	}
	return nil
}

// ContentTypeFor 根据扩展名推断 logo 的 content-type
func ContentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
