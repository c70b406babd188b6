package internal

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheManager persists the last successfully fetched conversation list so
// listings degrade gracefully when the service is unreachable.
type CacheManager struct {
	cacheDir string
}

// ConversationIndex is the YAML index of known conversations for one
// identity against one server.
type ConversationIndex struct {
	Server        string         `yaml:"server"`
	Email         string         `yaml:"email"`
	UpdatedAt     time.Time      `yaml:"updated_at"`
	Conversations []Conversation `yaml:"conversations"`
}

// NewCacheManager creates a cache manager rooted at cacheDir.
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir}
}

// GetIndexPath returns the path to the conversation index file.
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "conversations.yaml")
}

// SaveIndex writes the index after a successful list fetch.
func (cm *CacheManager) SaveIndex(index *ConversationIndex) error {
	if err := os.MkdirAll(cm.cacheDir, 0755); err != nil {
		return &StoreError{Path: cm.cacheDir, Op: "write", Err: err}
	}

	index.UpdatedAt = time.Now()
	data, err := yaml.Marshal(index)
	if err != nil {
		return &StoreError{Path: cm.GetIndexPath(), Op: "write", Err: err}
	}
	if err := os.WriteFile(cm.GetIndexPath(), data, 0644); err != nil {
		return &StoreError{Path: cm.GetIndexPath(), Op: "write", Err: err}
	}
	return nil
}

// LoadIndex loads the cached index. Returns nil without error when no cache
// exists yet or it belongs to a different identity or server.
func (cm *CacheManager) LoadIndex(server, email string) (*ConversationIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Path: cm.GetIndexPath(), Op: "read", Err: err}
	}

	var index ConversationIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &StoreError{Path: cm.GetIndexPath(), Op: "read", Err: err}
	}

	if index.Server != server || index.Email != email {
		return nil, nil
	}
	return &index, nil
}

// ClearCache removes the cached index.
func (cm *CacheManager) ClearCache() error {
	err := os.Remove(cm.GetIndexPath())
	if err != nil && !os.IsNotExist(err) {
		return &StoreError{Path: cm.GetIndexPath(), Op: "delete", Err: err}
	}
	return nil
}
