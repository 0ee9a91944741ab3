package assets

import "github.com/spaghettifunk/helios/engine/renderer/metadata"

// Loader turns a file on disk into a typed resource. The Data field of the
// returned resource holds the loader-specific payload.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
