package renderer

import "github.com/spaghettifunk/helios/engine/renderer/metadata"

type RendererType uint8

const (
	Vulkan RendererType = iota
	DirectX
	Metal
	OpenGL
)

// RendererBackend is the contract every rendering API implementation
// fulfills. The frontend talks exclusively through this interface so the
// systems above it stay API-agnostic.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint16) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	TextureCreate(pixels []uint8, texture *metadata.Texture)
	TextureCreateCube(facePixels [6][]uint8, texture *metadata.Texture)
	TextureDestroy(texture *metadata.Texture)
	TextureWriteData(texture *metadata.Texture, pixels []uint8)
	TextureMapAcquireResources(textureMap *metadata.TextureMap) bool
	TextureMapReleaseResources(textureMap *metadata.TextureMap)
	TextureMapBind(textureMap *metadata.TextureMap, unit uint32) bool
	CreateGeometry(geometry *metadata.Geometry, config *metadata.GeometryConfig) bool
	DestroyGeometry(geometry *metadata.Geometry)
	DrawGeometry(data *metadata.GeometryRenderData)
	RenderPassCreate(config *metadata.RenderPassConfig) (*metadata.RenderPass, error)
	RenderPassDestroy(pass *metadata.RenderPass)
	RenderPassBegin(pass *metadata.RenderPass) bool
	RenderPassEnd(pass *metadata.RenderPass) bool
	RenderPassGet(name string) *metadata.RenderPass
	ShaderCreate(shader *metadata.Shader, config *metadata.ShaderConfig, sources map[metadata.ShaderStage]string) bool
	ShaderDestroy(shader *metadata.Shader)
	ShaderUse(shader *metadata.Shader) bool
	ShaderSetUniform(shader *metadata.Shader, name string, value interface{}) bool
	IsMultithreaded() bool
}
