// Package cache 持久化单文件的行统计结果，跳过未变化文件的重复分类。
//
// 只缓存 FileStats；函数与结构体分析每次都重新执行。
// 缓存文件是带版本号的 JSON，经 zstd 压缩后落盘。
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"gohowmany/internal/model"
)

// Version 是缓存格式版本，不一致时整体丢弃。
const Version = 1

type entry struct {
	ModTime int64           `json:"mtime"`
	Size    int64           `json:"size"`
	Digest  uint64          `json:"digest"`
	Stats   model.FileStats `json:"stats"`
}

type document struct {
	Version int               `json:"version"`
	Entries map[string]entry `json:"entries"`
}

// FileCache 是并发安全的文件统计缓存。
type FileCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]entry
	dirty   bool
}

// Load 读取缓存文件。文件不存在、损坏或版本不符时返回空缓存；
// 只有读取本身失败（例如权限问题）才返回错误。
func Load(path string) (*FileCache, error) {
	cache := &FileCache{path: path, entries: make(map[string]entry)}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return cache, fmt.Errorf("read cache: %w", err)
	}

	doc, err := decode(content)
	if err != nil || doc.Version != Version || doc.Entries == nil {
		// 旧版本或损坏文件，下次保存时覆盖
		cache.dirty = true
		return cache, nil
	}
	cache.entries = doc.Entries
	return cache, nil
}

// Path 返回缓存文件位置。
func (c *FileCache) Path() string {
	return c.path
}

// Get 在文件未变化时返回缓存的统计值。
// mtime 与大小都一致直接命中；只有 mtime 变化时再比较内容摘要。
func (c *FileCache) Get(path string) (model.FileStats, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileStats{}, false
	}

	c.mu.Lock()
	cached, ok := c.entries[path]
	c.mu.Unlock()
	if !ok || cached.Size != info.Size() {
		return model.FileStats{}, false
	}
	if cached.ModTime == info.ModTime().UnixNano() {
		return cached.Stats, true
	}

	content, err := os.ReadFile(path)
	if err != nil || xxhash.Sum64(content) != cached.Digest {
		return model.FileStats{}, false
	}

	cached.ModTime = info.ModTime().UnixNano()
	c.mu.Lock()
	c.entries[path] = cached
	c.dirty = true
	c.mu.Unlock()
	return cached.Stats, true
}

// Insert 记录文件当前的 mtime、大小和内容摘要。
func (c *FileCache) Insert(path string, stats model.FileStats) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{
		ModTime: info.ModTime().UnixNano(),
		Size:    info.Size(),
		Digest:  xxhash.Sum64(content),
		Stats:   stats,
	}
	c.dirty = true
	return nil
}

// Remove 删除单个条目。
func (c *FileCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; ok {
		delete(c.entries, path)
		c.dirty = true
	}
}

// Clear 清空所有条目。
func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.dirty = true
}

// Size 返回条目数。
func (c *FileCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CleanupMissingFiles 删除磁盘上已不存在的文件条目，返回删除数量。
func (c *FileCache) CleanupMissingFiles() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for path := range c.entries {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			delete(c.entries, path)
			removed++
		}
	}
	if removed > 0 {
		c.dirty = true
	}
	return removed
}

// Save 在有改动时把缓存写回磁盘，先写临时文件再改名。
func (c *FileCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	content, err := encode(document{Version: Version, Entries: c.entries})
	if err != nil {
		return err
	}

	directory := filepath.Dir(c.path)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	temp := c.path + ".tmp"
	if err := os.WriteFile(temp, content, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(temp, c.path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace cache: %w", err)
	}
	c.dirty = false
	return nil
}

func encode(doc document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal cache: %w", err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(raw, nil), nil
}

func decode(content []byte) (document, error) {
	var doc document
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return doc, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(content, nil)
	if err != nil {
		return doc, fmt.Errorf("decompress cache: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal cache: %w", err)
	}
	return doc, nil
}
