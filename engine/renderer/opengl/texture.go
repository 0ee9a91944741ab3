package opengl

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/**
 * @brief GL object handle and bind target for one texture.
 */
type OpenGLTexture struct {
	Handle uint32
	Target uint32
}

/**
 * @brief The sampler object backing a texture map.
 */
type OpenGLTextureMap struct {
	Sampler uint32
}

// TextureCreate uploads tightly packed RGBA pixels as a 2D texture and
// generates its mip chain.
func (gr *OpenGLRenderer) TextureCreate(pixels []uint8, texture *metadata.Texture) {
	internal := &OpenGLTexture{Target: gl.TEXTURE_2D}
	gl.GenTextures(1, &internal.Handle)
	gl.BindTexture(gl.TEXTURE_2D, internal.Handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(texture.Width), int32(texture.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	texture.InternalData = internal
	texture.Generation++
}

// TextureCreateCube uploads six RGBA faces, ordered +X -X +Y -Y +Z -Z,
// as a single cubemap texture. All faces share the texture's dimensions.
func (gr *OpenGLRenderer) TextureCreateCube(facePixels [6][]uint8, texture *metadata.Texture) {
	internal := &OpenGLTexture{Target: gl.TEXTURE_CUBE_MAP}
	gl.GenTextures(1, &internal.Handle)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, internal.Handle)
	for i := 0; i < 6; i++ {
		gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), 0, gl.RGBA8,
			int32(texture.Width), int32(texture.Height),
			0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(facePixels[i]))
	}
	// Sensible defaults even without a sampler bound.
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	texture.InternalData = internal
	texture.Generation++
}

func (gr *OpenGLRenderer) TextureDestroy(texture *metadata.Texture) {
	if texture == nil {
		return
	}
	internal, ok := texture.InternalData.(*OpenGLTexture)
	if !ok {
		return
	}
	gl.DeleteTextures(1, &internal.Handle)
	texture.InternalData = nil
	texture.Generation = metadata.InvalidID
}

// TextureWriteData replaces the pixel data of an existing 2D texture. The
// texture is re-specified, so the new data may have different dimensions as
// long as texture.Width and texture.Height were updated first.
func (gr *OpenGLRenderer) TextureWriteData(texture *metadata.Texture, pixels []uint8) {
	internal, ok := texture.InternalData.(*OpenGLTexture)
	if !ok {
		gr.TextureCreate(pixels, texture)
		return
	}
	if internal.Target != gl.TEXTURE_2D {
		core.LogWarn("func TextureWriteData only supports 2D textures, %s skipped", texture.Name)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, internal.Handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(texture.Width), int32(texture.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	texture.Generation++
}

func (gr *OpenGLRenderer) TextureMapAcquireResources(textureMap *metadata.TextureMap) bool {
	internal := &OpenGLTextureMap{}
	gl.GenSamplers(1, &internal.Sampler)
	gl.SamplerParameteri(internal.Sampler, gl.TEXTURE_MIN_FILTER, convertMinFilter(textureMap.FilterMinify))
	gl.SamplerParameteri(internal.Sampler, gl.TEXTURE_MAG_FILTER, convertMagFilter(textureMap.FilterMagnify))
	gl.SamplerParameteri(internal.Sampler, gl.TEXTURE_WRAP_S, convertRepeat(textureMap.RepeatU))
	gl.SamplerParameteri(internal.Sampler, gl.TEXTURE_WRAP_T, convertRepeat(textureMap.RepeatV))
	gl.SamplerParameteri(internal.Sampler, gl.TEXTURE_WRAP_R, convertRepeat(textureMap.RepeatW))
	textureMap.InternalData = internal
	return true
}

func (gr *OpenGLRenderer) TextureMapReleaseResources(textureMap *metadata.TextureMap) {
	if textureMap == nil {
		return
	}
	internal, ok := textureMap.InternalData.(*OpenGLTextureMap)
	if !ok {
		return
	}
	gl.DeleteSamplers(1, &internal.Sampler)
	textureMap.InternalData = nil
}

// TextureMapBind makes the map's texture and sampler active on the given
// texture unit.
func (gr *OpenGLRenderer) TextureMapBind(textureMap *metadata.TextureMap, unit uint32) bool {
	if textureMap == nil || textureMap.Texture == nil {
		return false
	}
	texture, ok := textureMap.Texture.InternalData.(*OpenGLTexture)
	if !ok {
		core.LogWarn("texture %s has no backend data, bind skipped", textureMap.Texture.Name)
		return false
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(texture.Target, texture.Handle)
	if sampler, ok := textureMap.InternalData.(*OpenGLTextureMap); ok {
		gl.BindSampler(unit, sampler.Sampler)
	} else {
		gl.BindSampler(unit, 0)
	}
	return true
}

func convertMinFilter(filter metadata.TextureFilter) int32 {
	// Minification always samples the mip chain.
	if filter == metadata.TextureFilterModeNearest {
		return gl.NEAREST_MIPMAP_NEAREST
	}
	return gl.LINEAR_MIPMAP_LINEAR
}

func convertMagFilter(filter metadata.TextureFilter) int32 {
	if filter == metadata.TextureFilterModeNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func convertRepeat(repeat metadata.TextureRepeat) int32 {
	switch repeat {
	case metadata.TextureRepeatMirroredRepeat:
		return gl.MIRRORED_REPEAT
	case metadata.TextureRepeatClampToEdge:
		return gl.CLAMP_TO_EDGE
	case metadata.TextureRepeatClampToBorder:
		return gl.CLAMP_TO_BORDER
	default:
		return gl.REPEAT
	}
}
