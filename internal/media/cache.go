package media

import (
	"database/sql"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	game_log "github.com/ingyamilmolinar/trimline/internal/log"
)

// ThumbCache is an on-disk thumbnail store: PNG files in a directory with a
// sqlite index keyed by (asset, time, pixel size). Safe for use from the
// generator's worker goroutine; each method runs one statement.
type ThumbCache struct {
	dir    string
	db     *sql.DB
	logger *game_log.Logger
}

func OpenThumbCache(dir string, logger *game_log.Logger) (*ThumbCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "thumbs.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache index: %w", err)
	}
	// WAL keeps reads cheap while a batch writes.
	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		logger.Warnf("[CACHE] pragma setup failed: %v", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS thumbs (
			key        TEXT PRIMARY KEY,
			file       TEXT NOT NULL,
			width      INTEGER NOT NULL,
			height     INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &ThumbCache{dir: dir, db: db, logger: logger}, nil
}

func (c *ThumbCache) Close() error { return c.db.Close() }

// Key builds the cache key for one thumbnail request.
func Key(assetID string, timeValue int64, timeScale int32, size image.Point) string {
	return fmt.Sprintf("%s|%d/%d|%dx%d", assetID, timeValue, timeScale, size.X, size.Y)
}

// Get returns the cached image for key, or nil on a miss. Index entries
// whose backing file vanished are treated as misses and pruned.
func (c *ThumbCache) Get(key string) image.Image {
	var file string
	err := c.db.QueryRow(`SELECT file FROM thumbs WHERE key = ?`, key).Scan(&file)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		c.logger.Warnf("[CACHE] lookup %q: %v", key, err)
		return nil
	}
	f, err := os.Open(filepath.Join(c.dir, file))
	if err != nil {
		c.db.Exec(`DELETE FROM thumbs WHERE key = ?`, key)
		return nil
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		c.logger.Warnf("[CACHE] decode %s: %v", file, err)
		c.db.Exec(`DELETE FROM thumbs WHERE key = ?`, key)
		return nil
	}
	return img
}

// Put stores img under key. Failures only cost a future cache miss, so they
// are logged and swallowed.
func (c *ThumbCache) Put(key string, img image.Image) {
	name := uuid.NewString() + ".png"
	f, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		c.logger.Warnf("[CACHE] create %s: %v", name, err)
		return
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(filepath.Join(c.dir, name))
		c.logger.Warnf("[CACHE] encode %s: %v", name, err)
		return
	}
	f.Close()

	b := img.Bounds()
	if _, err := c.db.Exec(
		`INSERT OR REPLACE INTO thumbs (key, file, width, height, created_at) VALUES (?, ?, ?, ?, ?)`,
		key, name, b.Dx(), b.Dy(), time.Now().Unix(),
	); err != nil {
		c.logger.Warnf("[CACHE] index %q: %v", key, err)
		os.Remove(filepath.Join(c.dir, name))
	}
}
