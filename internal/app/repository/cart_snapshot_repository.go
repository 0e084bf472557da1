package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/storage"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSnapshotNotFound is returned by Load when nothing has been persisted yet.
var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// CartSnapshotRepository stores the serialized cart under a single durable key.
// Save always replaces the whole snapshot.
type CartSnapshotRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// ==================== file ====================

type fileCartSnapshotRepository struct {
	dir  string
	path string
}

// NewFileCartSnapshotRepository keeps the snapshot in dir, named after key.
func NewFileCartSnapshotRepository(dir, key string) CartSnapshotRepository {
	name := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key) + ".json"
	return &fileCartSnapshotRepository{dir: dir, path: filepath.Join(dir, name)}
}

func (r *fileCartSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it into place so
// a reader never sees a half-written snapshot.
func (r *fileCartSnapshotRepository) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".cart-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cart snapshot: %w", err)
	}

	logger.Debug("Cart snapshot written to file", map[string]interface{}{
		"path":  r.path,
		"bytes": len(data),
	})
	return nil
}

// ==================== redis ====================

type redisCartSnapshotRepository struct {
	client *redis.Client
	key    string
}

func NewRedisCartSnapshotRepository(client *redis.Client, key string) CartSnapshotRepository {
	return &redisCartSnapshotRepository{client: client, key: key}
}

func (r *redisCartSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", r.key, err)
	}
	return data, nil
}

func (r *redisCartSnapshotRepository) Save(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", r.key, err)
	}
	logger.Debug("Cart snapshot written to redis", map[string]interface{}{
		"key":   r.key,
		"bytes": len(data),
	})
	return nil
}

// ==================== sql ====================

type sqlCartSnapshotRepository struct {
	db  *gorm.DB
	key string
}

func NewSQLCartSnapshotRepository(db *gorm.DB, key string) CartSnapshotRepository {
	return &sqlCartSnapshotRepository{db: db, key: key}
}

func (r *sqlCartSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	var snapshot model.CartSnapshot
	err := r.db.WithContext(ctx).
		Where(&model.CartSnapshot{Key: r.key}).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart snapshot: %w", err)
	}
	return snapshot.Data, nil
}

func (r *sqlCartSnapshotRepository) Save(ctx context.Context, data []byte) error {
	snapshot := &model.CartSnapshot{
		Key:       r.key,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to upsert cart snapshot: %w", err)
	}
	logger.Debug("Cart snapshot written to database", map[string]interface{}{
		"key":   r.key,
		"bytes": len(data),
	})
	return nil
}

// ==================== object storage ====================

type objectCartSnapshotRepository struct {
	store storage.ObjectStore
	key   string
}

// NewObjectCartSnapshotRepository keeps the snapshot as a single JSON object.
func NewObjectCartSnapshotRepository(store storage.ObjectStore, key string) CartSnapshotRepository {
	return &objectCartSnapshotRepository{store: store, key: strings.Trim(key, "/") + ".json"}
}

func (r *objectCartSnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrSnapshotNotFound
	}
	return data, err
}

func (r *objectCartSnapshotRepository) Save(ctx context.Context, data []byte) error {
	return r.store.Put(ctx, r.key, data, "application/json")
}
