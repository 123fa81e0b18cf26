package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	projects "github.com/buildflow-ai/ai-builder-backend/internal/projects/domain"
	"github.com/buildflow-ai/ai-builder-backend/internal/terminal/domain"
)

const (
	fileKeyPrefix     = "file:"    // raw file content: file:{baseDir}/{path}
	snapshotKeyPrefix = "project:" // saved snapshot: project:{name}
	savedProjectsKey  = "savedprojects"
)

// FileStore is the system's only "write" target: a flat key-value store for
// raw file contents and per-project snapshots. There is no real filesystem.
type FileStore struct {
	client *redis.Client
}

func NewFileStore(client *redis.Client) *FileStore {
	return &FileStore{client: client}
}

// SaveFile persists raw file content under file:<path>.
func (s *FileStore) SaveFile(ctx context.Context, path, content string) error {
	if err := s.client.Set(ctx, fileKeyPrefix+path, content, 0).Err(); err != nil {
		return fmt.Errorf("failed to save file %s: %w", path, err)
	}
	return nil
}

// LoadFile returns the raw content stored under file:<path>.
func (s *FileStore) LoadFile(ctx context.Context, path string) (string, error) {
	content, err := s.client.Get(ctx, fileKeyPrefix+path).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load file %s: %w", path, err)
	}
	return content, nil
}

// SaveSnapshot stores a named copy of the project's files and registers the
// name in the saved-projects set.
func (s *FileStore) SaveSnapshot(ctx context.Context, name string, files []projects.ProjectFile) error {
	snap := domain.Snapshot{
		Name:    name,
		Files:   files,
		SavedAt: time.Now(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, snapshotKeyPrefix+name, data, 0)
	pipe.SAdd(ctx, savedProjectsKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the saved snapshot for a project name, or nil when
// none exists. A corrupted payload is logged and the key deleted.
func (s *FileStore) LoadSnapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+name).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		log.Printf("[warn] corrupted snapshot %s, deleting: %v", name, err)
		s.client.Del(ctx, snapshotKeyPrefix+name)
		s.client.SRem(ctx, savedProjectsKey, name)
		return nil, nil
	}
	return &snap, nil
}

// SavedProjects lists the names of all saved snapshots.
func (s *FileStore) SavedProjects(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, savedProjectsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved projects: %w", err)
	}
	return names, nil
}

// DeleteSnapshot removes a saved snapshot and its registry entry.
func (s *FileStore) DeleteSnapshot(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, snapshotKeyPrefix+name)
	pipe.SRem(ctx, savedProjectsKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
