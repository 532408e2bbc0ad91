package systems

import (
	"fmt"
	"image"
	"sync"

	"github.com/spaghettifunk/anima-atlas/engine/assets"
	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

/** @brief Dispatches resource loads to the loader registered for each type. */
type ResourceSystem struct {
	mutex   sync.RWMutex
	loaders map[metadata.ResourceType]assets.Loader
}

// NewResourceSystem returns a system with the image and metadata loaders
// already registered.
func NewResourceSystem() *ResourceSystem {
	rs := &ResourceSystem{
		loaders: make(map[metadata.ResourceType]assets.Loader),
	}
	rs.RegisterLoader(metadata.ResourceTypeText, &loaders.MetadataLoader{})
	rs.RegisterLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	return rs
}

/**
 * @brief Registers a loader for the given type.
 * @return False if a loader of that type already exists.
 */
func (rs *ResourceSystem) RegisterLoader(resourceType metadata.ResourceType, loader assets.Loader) bool {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if _, exists := rs.loaders[resourceType]; exists {
		core.LogError("loader of type %s already exists and will not be registered", resourceType)
		return false
	}
	rs.loaders[resourceType] = loader
	core.LogDebug("%s loader registered", resourceType)
	return true
}

func (rs *ResourceSystem) Load(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	rs.mutex.RLock()
	l, ok := rs.loaders[resourceType]
	rs.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no loader for type %s", core.ErrUnknown, resourceType)
	}
	return l.Load(path, resourceType, params)
}

// LoadImage decodes the PNG at path into an NRGBA image.
func (rs *ResourceSystem) LoadImage(path string) (image.Image, error) {
	res, err := rs.Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{ForceNRGBA: true})
	if err != nil {
		return nil, err
	}
	return res.Data.(*metadata.ImageResourceData).Pixels, nil
}

func (rs *ResourceSystem) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	rs.mutex.RLock()
	l, ok := rs.loaders[resource.Type]
	rs.mutex.RUnlock()
	if !ok {
		return nil
	}
	return l.Unload(resource)
}
