package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

const DEFAULT_DEBOUNCE = 200 * time.Millisecond

type AssetInfo struct {
	Path     string
	Type     metadata.ResourceType
	Modified time.Time
}

// AssetManager keeps an index of the asset files under a source root and
// reports batches of changes to them.
type AssetManager struct {
	assets           map[string]AssetInfo
	dirs             map[string]struct{}
	metadataFilename string
	ignore           map[string]struct{}
	debounce         time.Duration

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan []string
	errors   chan error
}

func NewAssetManager(metadataFilename string, ignore []string) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:           make(map[string]AssetInfo),
		dirs:             make(map[string]struct{}),
		metadataFilename: metadataFilename,
		ignore:           make(map[string]struct{}, len(ignore)),
		debounce:         DEFAULT_DEBOUNCE,
		fsnotify:         fsWatch,
		changes:          make(chan []string, 1),
		errors:           make(chan error, 1),
		done:             make(chan struct{}),
	}
	for _, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			am.ignore[abs] = struct{}{}
		}
	}
	return am, nil
}

// Initialize indexes and watches assetsDir and all of its sub-directories.
// On error the manager is shut down.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		am.Shutdown()
		return err
	}
	go am.start()
	return nil
}

// Changes delivers the paths touched since the previous batch, once the
// tree has been quiet for the debounce interval.
func (am *AssetManager) Changes() <-chan []string {
	return am.changes
}

func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Assets returns a snapshot of the indexed files, sorted by path.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Shutdown stops the event loop and releases the fsnotify watcher. It is
// safe to call more than once, before or after Initialize.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()
	close(am.done)
	return am.fsnotify.Close()
}

// addRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name)
}

func (am *AssetManager) start() {
	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			gone := err != nil && e.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError("watching %s: %s", e.Name, err)
					}
					pending = append(pending, e.Name)
				}
			} else if gone && am.removeTree(e.Name) {
				// a watched directory or indexed file left the tree
				pending = append(pending, e.Name)
			} else if am.IsRelevant(e.Name) {
				if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					am.handleFileEvent(e.Name)
				}
				//Can't stat a deleted path, so just drop it from the index
				if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					am.removeAsset(e.Name)
				}
				pending = append(pending, e.Name)
			}
			if len(pending) > 0 {
				if timer == nil {
					timer = time.NewTimer(am.debounce)
				} else {
					timer.Reset(am.debounce)
				}
				fire = timer.C
			}

		case <-fire:
			fire = nil
			batch := pending
			pending = nil
			select {
			case am.changes <- batch:
			default:
				// a batch is already queued; the rebuild it triggers covers this one too
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())
			select {
			case am.errors <- e:
			default:
			}

		case <-am.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// IsRelevant reports whether a change to path can alter the atlas: PNG
// files and metadata sidecars that are not build outputs.
func (am *AssetManager) IsRelevant(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if _, skip := am.ignore[abs]; skip {
		return false
	}
	return determineAssetType(filepath.Base(abs), am.metadataFilename) >= 0
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the asset files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			am.mutex.Lock()
			am.dirs[walkPath] = struct{}{}
			am.mutex.Unlock()
			return am.fsnotify.Add(walkPath)
		}
		if am.IsRelevant(walkPath) {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	assetType := determineAssetType(filepath.Base(path), am.metadataFilename)
	if assetType < 0 {
		return
	}
	am.assets[path] = AssetInfo{
		Path:     path,
		Type:     assetType,
		Modified: time.Now(),
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

// removeTree drops path and everything indexed below it. It reports whether
// path was a watched directory or an indexed asset.
func (am *AssetManager) removeTree(path string) bool {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	prefix := path + string(filepath.Separator)
	found := false
	for dir := range am.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(am.dirs, dir)
			// renamed directories keep their inotify watch; removed ones are already gone
			am.fsnotify.Remove(dir)
			found = true
		}
	}
	for p := range am.assets {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(am.assets, p)
			found = true
		}
	}
	return found
}

func determineAssetType(base, metadataFilename string) metadata.ResourceType {
	switch {
	case IsPNG(base):
		return metadata.ResourceTypeImage
	case base == metadataFilename:
		return metadata.ResourceTypeText
	default:
		return -1
	}
}
