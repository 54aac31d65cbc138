package document

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar = "CITELENS_CACHE_DIR"
	cacheSubdir = "citelens/layers"
)

// layerCache stores extracted text layers on disk so reopening a document
// skips the content-stream interpreter entirely. Entries are keyed by the
// source file's path, size and modification time; an edited PDF simply
// misses and re-extracts.
type layerCache struct {
	dir string
}

type cachedLayers struct {
	Path      string       `json:"path"`
	Size      int64        `json:"size"`
	ModTime   time.Time    `json:"modTime"`
	CachedAt  time.Time    `json:"cachedAt"`
	PageCount int          `json:"pageCount"`
	Layers    []*PageLayer `json:"layers"`
}

func newLayerCache() (*layerCache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "citelens-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &layerCache{dir: dir}, nil
}

func (c *layerCache) Load(path string, info os.FileInfo) (*cachedLayers, bool) {
	data, err := os.ReadFile(c.pathFor(path, info))
	if err != nil {
		return nil, false
	}
	var entry cachedLayers
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if entry.Path != path || entry.Size != info.Size() || !entry.ModTime.Equal(info.ModTime()) {
		return nil, false
	}
	return &entry, true
}

func (c *layerCache) Store(path string, info os.FileInfo, pageCount int, layers []*PageLayer) error {
	entry := cachedLayers{
		Path:      path,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		CachedAt:  time.Now().UTC(),
		PageCount: pageCount,
		Layers:    layers,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(path, info), data, 0o644)
}

func (c *layerCache) pathFor(path string, info os.FileInfo) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}
