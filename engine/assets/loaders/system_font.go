package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

type SystemFontLoader struct{}

// Load reads a TTF/OTF file and verifies it parses. The binary is kept in
// the resource so the font system can instantiate faces at whatever sizes
// it needs.
func (fl *SystemFontLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	binary, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parsed, err := opentype.Parse(binary)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %s", path, err)
	}

	var buffer sfnt.Buffer
	family, err := parsed.Name(&buffer, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &metadata.Resource{
		Name:     family,
		FullPath: path,
		DataSize: uint64(len(binary)),
		Data: &metadata.SystemFontResourceData{
			Fonts: []*metadata.SystemFontFace{
				{Name: family},
			},
			FontBinary: binary,
		},
	}, nil
}

func (fl *SystemFontLoader) Unload(resource *metadata.Resource) error {
	if resource != nil {
		resource.Data = nil
		resource.DataSize = 0
	}
	return nil
}
