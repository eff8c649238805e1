package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohowmany/internal/model"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sampleStats(code int64) model.FileStats {
	return model.FileStats{TotalLines: code + 2, CodeLines: code, BlankLines: 2, FileSize: 64}
}

// TestGetHitsOnUnchangedFile 验证 mtime 与大小一致时命中。
func TestGetHitsOnUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.go")
	writeFile(t, source, "package main\n")

	cache, err := Load(filepath.Join(dir, "cache.zst"))
	require.NoError(t, err)
	require.NoError(t, cache.Insert(source, sampleStats(1)))

	stats, ok := cache.Get(source)
	require.True(t, ok)
	assert.Equal(t, sampleStats(1), stats)

	_, ok = cache.Get(filepath.Join(dir, "missing.go"))
	assert.False(t, ok)
}

// TestGetAfterModification 验证内容变化失效，仅 touch 时靠摘要命中。
func TestGetAfterModification(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lib.rs")
	writeFile(t, source, "fn a() {}\n")

	cache, err := Load(filepath.Join(dir, "cache.zst"))
	require.NoError(t, err)
	require.NoError(t, cache.Insert(source, sampleStats(1)))

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, later, later))
	_, ok := cache.Get(source)
	assert.True(t, ok, "touched file with same content should hit")

	// 大小相同但内容不同
	writeFile(t, source, "fn b() {}\n")
	evenLater := later.Add(time.Hour)
	require.NoError(t, os.Chtimes(source, evenLater, evenLater))
	_, ok = cache.Get(source)
	assert.False(t, ok)

	writeFile(t, source, "fn b() {}\nfn c() {}\n")
	_, ok = cache.Get(source)
	assert.False(t, ok)
}

// TestSaveAndLoad 验证压缩落盘后可以完整读回。
func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "nested", "cache.zst")
	source := filepath.Join(dir, "app.py")
	writeFile(t, source, "print('hi')\n")

	cache, err := Load(cachePath)
	require.NoError(t, err)
	require.NoError(t, cache.Insert(source, sampleStats(1)))
	require.NoError(t, cache.Save())

	reloaded, err := Load(cachePath)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Size())
	stats, ok := reloaded.Get(source)
	require.True(t, ok)
	assert.Equal(t, sampleStats(1), stats)

	_, err = os.Stat(cachePath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

// TestLoadDiscardsCorruptOrStaleFiles 验证损坏文件与旧版本都从空缓存开始。
func TestLoadDiscardsCorruptOrStaleFiles(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.zst")
	writeFile(t, corrupt, "definitely not zstd")
	cache, err := Load(corrupt)
	require.NoError(t, err)
	assert.Zero(t, cache.Size())
	require.NoError(t, cache.Save())

	stale := filepath.Join(dir, "stale.zst")
	content, err := encode(document{Version: Version + 1, Entries: map[string]entry{"x": {Size: 1}}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(stale, content, 0o644))
	cache, err = Load(stale)
	require.NoError(t, err)
	assert.Zero(t, cache.Size())
}

// TestCleanupMissingFiles 验证只删除磁盘上已消失的条目。
func TestCleanupMissingFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.go")
	gone := filepath.Join(dir, "gone.go")
	writeFile(t, keep, "package keep\n")
	writeFile(t, gone, "package gone\n")

	cache, err := Load(filepath.Join(dir, "cache.zst"))
	require.NoError(t, err)
	require.NoError(t, cache.Insert(keep, sampleStats(1)))
	require.NoError(t, cache.Insert(gone, sampleStats(1)))
	require.NoError(t, os.Remove(gone))

	assert.Equal(t, 1, cache.CleanupMissingFiles())
	assert.Equal(t, 1, cache.Size())
	assert.Zero(t, cache.CleanupMissingFiles())
}

func TestRemoveAndClear(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.go")
	writeFile(t, source, "package a\n")

	cache, err := Load(filepath.Join(dir, "cache.zst"))
	require.NoError(t, err)
	require.NoError(t, cache.Insert(source, sampleStats(1)))
	cache.Remove(source)
	assert.Zero(t, cache.Size())

	require.NoError(t, cache.Insert(source, sampleStats(1)))
	cache.Clear()
	assert.Zero(t, cache.Size())

	assert.Error(t, cache.Insert(filepath.Join(dir, "missing.go"), sampleStats(1)))
}

// TestConcurrentAccess 验证多个 goroutine 同时读写不会出现竞争。
func TestConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	cache, err := Load(filepath.Join(dir, "cache.zst"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		path := filepath.Join(dir, fmt.Sprintf("f%d.go", i))
		writeFile(t, path, "package f\n")
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Insert(path, sampleStats(1)))
			_, ok := cache.Get(path)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, cache.Size())
	require.NoError(t, cache.Save())
}
