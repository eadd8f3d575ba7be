package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gorm.io/gorm"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// chunkSize matches the GridFS default so existing exports stay compatible.
const chunkSize = 255 * 1024

// PostgresStore stores blobs as ordered chunk rows in the primary database.
// It is the default backend so a single postgres instance can serve the
// whole application.
type PostgresStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresStore(db *gorm.DB, baseLog *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: baseLog.With("component", "PostgresBlobStore")}
}

func (s *PostgresStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("storage_key = ?", key).Delete(&types.BlobChunk{}).Error; err != nil {
			return fmt.Errorf("clear existing chunks: %w", err)
		}
		buf := make([]byte, chunkSize)
		index := 0
		for {
			n, readErr := io.ReadFull(r, buf)
			if n > 0 {
				chunk := &types.BlobChunk{
					StorageKey: key,
					Index:      index,
					Data:       append([]byte(nil), buf[:n]...),
					Size:       n,
				}
				if err := tx.Create(chunk).Error; err != nil {
					return fmt.Errorf("write chunk %d: %w", index, err)
				}
				total += int64(n)
				index++
			}
			if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
				break
			}
			if readErr != nil {
				return fmt.Errorf("read blob: %w", readErr)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Debug("Stored blob", "key", key, "bytes", total)
	return total, nil
}

func (s *PostgresStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	var chunks []types.BlobChunk
	if err := s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Order("chunk_index ASC").
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNotFound
	}
	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c.Data)
	}
	return io.NopCloser(&buf), nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Delete(&types.BlobChunk{}).Error
}
