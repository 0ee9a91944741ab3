package systems

import (
	"fmt"
	gomath "math"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/math"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

// Tessellation of the shared unit sphere. Bodies scale it through their
// model matrix, so one mesh serves every body in the scene.
const (
	defaultSphereRings   uint32 = 64
	defaultSphereSectors uint32 = 64
)

/** @brief The geometry system configuration. */
type GeometrySystemConfig struct {
	/** @brief The maximum number of geometries that can be loaded at once. */
	MaxGeometryCount uint32
}

/**
 * @brief Owns all geometry on the GPU. Geometries are built from configs
 * generated in code (spheres, cubes, quads and font glyph quads), uploaded
 * through the renderer and reference counted.
 */
type GeometrySystem struct {
	Config GeometrySystemConfig
	// DefaultGeometry is a unit sphere shared by every body.
	DefaultGeometry *metadata.Geometry
	// Default2DGeometry is a small quad for UI use.
	Default2DGeometry *metadata.Geometry
	// RegisteredGeometries holds the preallocated geometry slots.
	RegisteredGeometries []*metadata.GeometryReference

	materialSystem *MaterialSystem
	renderer       *RendererSystem
}

func NewGeometrySystem(config GeometrySystemConfig, ms *MaterialSystem, r *RendererSystem) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		return nil, fmt.Errorf("func NewGeometrySystem requires MaxGeometryCount > 0")
	}
	gs := &GeometrySystem{
		Config:               config,
		RegisteredGeometries: make([]*metadata.GeometryReference, config.MaxGeometryCount),
		materialSystem:       ms,
		renderer:             r,
	}
	// Invalidate every slot.
	for i := range gs.RegisteredGeometries {
		gs.RegisteredGeometries[i] = &metadata.GeometryReference{
			Geometry: &metadata.Geometry{
				ID:         metadata.InvalidID,
				InternalID: metadata.InvalidID,
				Generation: metadata.InvalidIDUint16,
			},
		}
	}
	return gs, nil
}

// Initialize uploads the default geometries. Must run on the frame thread
// after the material system is ready.
func (gs *GeometrySystem) Initialize() error {
	if err := gs.createDefaultGeometries(); err != nil {
		return err
	}
	return nil
}

func (gs *GeometrySystem) Shutdown() error {
	for _, ref := range gs.RegisteredGeometries {
		if ref.Geometry.ID != metadata.InvalidID {
			gs.destroyGeometry(ref.Geometry)
		}
	}
	if gs.DefaultGeometry != nil {
		gs.renderer.DestroyGeometry(gs.DefaultGeometry)
	}
	if gs.Default2DGeometry != nil {
		gs.renderer.DestroyGeometry(gs.Default2DGeometry)
	}
	return nil
}

/**
 * @brief Acquires an existing geometry by id.
 *
 * @param id The geometry identifier to acquire by.
 * @return A pointer to the acquired geometry, or an error.
 */
func (gs *GeometrySystem) AcquireByID(id uint32) (*metadata.Geometry, error) {
	if id == metadata.InvalidID || id >= gs.Config.MaxGeometryCount || gs.RegisteredGeometries[id].Geometry.ID == metadata.InvalidID {
		return nil, fmt.Errorf("func AcquireByID cannot load invalid geometry id %d", id)
	}
	gs.RegisteredGeometries[id].ReferenceCount++
	return gs.RegisteredGeometries[id].Geometry, nil
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 * @return A pointer to the acquired geometry, or an error.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*metadata.Geometry, error) {
	var geometry *metadata.Geometry
	for i := range gs.RegisteredGeometries {
		if gs.RegisteredGeometries[i].Geometry.ID == metadata.InvalidID {
			gs.RegisteredGeometries[i].AutoRelease = autoRelease
			gs.RegisteredGeometries[i].ReferenceCount = 1
			geometry = gs.RegisteredGeometries[i].Geometry
			geometry.ID = uint32(i)
			break
		}
	}
	if geometry == nil {
		return nil, fmt.Errorf("geometry system cannot hold more than %d geometries, adjust the configuration", gs.Config.MaxGeometryCount)
	}
	if err := gs.createGeometry(config, geometry); err != nil {
		return nil, err
	}
	return geometry, nil
}

/**
 * @brief Releases a reference to the provided geometry.
 *
 * @param geometry The geometry to be released.
 */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry == nil || geometry.ID == metadata.InvalidID {
		core.LogWarn("func Release cannot release an invalid geometry, nothing was done")
		return
	}
	ref := gs.RegisteredGeometries[geometry.ID]
	if ref.Geometry.ID != geometry.ID {
		core.LogError("geometry id mismatch, check registration logic as this should never occur")
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount < 1 && ref.AutoRelease {
		gs.destroyGeometry(ref.Geometry)
		ref.ReferenceCount = 0
		ref.AutoRelease = false
	}
}

/** @brief Obtains a pointer to the default geometry, a unit sphere. */
func (gs *GeometrySystem) GetDefault() *metadata.Geometry {
	return gs.DefaultGeometry
}

/** @brief Obtains a pointer to the default 2D geometry. */
func (gs *GeometrySystem) GetDefault2D() *metadata.Geometry {
	return gs.Default2DGeometry
}

/**
 * @brief Generates the configuration for a UV sphere centred on the origin.
 * Positions and normals are analytic, so the sphere lights correctly at any
 * tessellation. The seam column and the pole rows duplicate vertices to keep
 * the texture mapping clean.
 *
 * @param radius The radius of the sphere. Must be non-zero.
 * @param rings The number of horizontal subdivisions. Minimum of 3.
 * @param sectors The number of vertical slices. Minimum of 3.
 * @param name The name of the generated geometry.
 * @param materialName The name of the material to be used.
 * @return A geometry configuration which can then be fed into AcquireFromConfig.
 */
func (gs *GeometrySystem) GenerateSphereConfig(radius float32, rings, sectors uint32, name, materialName string) (*metadata.GeometryConfig, error) {
	if radius == 0 {
		core.LogWarn("radius must be nonzero, defaulting to one")
		radius = 1.0
	}
	if rings < 3 {
		core.LogWarn("rings must be at least 3, defaulting to 3")
		rings = 3
	}
	if sectors < 3 {
		core.LogWarn("sectors must be at least 3, defaulting to 3")
		sectors = 3
	}

	vertexCount := (rings + 1) * (sectors + 1)
	indexCount := rings * sectors * 6
	config := &metadata.GeometryConfig{
		Vertices: make([]math.Vertex3D, vertexCount),
		Indices:  make([]uint32, 0, indexCount),
	}

	for ring := uint32(0); ring <= rings; ring++ {
		phi := gomath.Pi * float64(ring) / float64(rings)
		y := gomath.Cos(phi)
		ringRadius := gomath.Sin(phi)
		for sector := uint32(0); sector <= sectors; sector++ {
			theta := 2.0 * gomath.Pi * float64(sector) / float64(sectors)
			x := ringRadius * gomath.Cos(theta)
			z := ringRadius * gomath.Sin(theta)

			normal := mgl32.Vec3{float32(x), float32(y), float32(z)}
			vertex := &config.Vertices[ring*(sectors+1)+sector]
			vertex.Position = normal.Mul(radius)
			vertex.Normal = normal
			vertex.Texcoord = mgl32.Vec2{
				float32(sector) / float32(sectors),
				1.0 - float32(ring)/float32(rings),
			}
		}
	}

	// Two counter-clockwise triangles per quad, wound for an outside viewer.
	// The quads touching a pole degenerate into single triangles.
	for ring := uint32(0); ring < rings; ring++ {
		for sector := uint32(0); sector < sectors; sector++ {
			a := ring*(sectors+1) + sector
			b := (ring+1)*(sectors+1) + sector
			c := (ring+1)*(sectors+1) + sector + 1
			d := ring*(sectors+1) + sector + 1
			config.Indices = append(config.Indices, a, d, c)
			config.Indices = append(config.Indices, a, c, b)
		}
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
	if len(materialName) > 0 {
		config.MaterialName = materialName
	} else {
		config.MaterialName = metadata.DefaultMaterialName
	}
	return config, nil
}

/**
 * @brief Generates the configuration for a cube centred on the origin,
 * used by the skybox.
 *
 * @param width The overall width of the cube. Must be non-zero.
 * @param height The overall height of the cube. Must be non-zero.
 * @param depth The overall depth of the cube. Must be non-zero.
 * @param tileX The number of times the texture tiles horizontally. Must be non-zero.
 * @param tileY The number of times the texture tiles vertically. Must be non-zero.
 * @param name The name of the generated geometry.
 * @param materialName The name of the material to be used.
 * @return A geometry configuration which can then be fed into AcquireFromConfig.
 */
func (gs *GeometrySystem) GenerateCubeConfig(width, height, depth, tileX, tileY float32, name, materialName string) (*metadata.GeometryConfig, error) {
	if width == 0 {
		core.LogWarn("width must be nonzero, defaulting to one")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("height must be nonzero, defaulting to one")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("depth must be nonzero, defaulting to one")
		depth = 1.0
	}
	if tileX == 0 {
		core.LogWarn("tileX must be nonzero, defaulting to one")
		tileX = 1.0
	}
	if tileY == 0 {
		core.LogWarn("tileY must be nonzero, defaulting to one")
		tileY = 1.0
	}

	config := &metadata.GeometryConfig{
		Vertices: make([]math.Vertex3D, 4*6),
		Indices:  make([]uint32, 6*6),
	}

	minX := -width * 0.5
	minY := -height * 0.5
	minZ := -depth * 0.5
	maxX := width * 0.5
	maxY := height * 0.5
	maxZ := depth * 0.5

	faces := [6]struct {
		corners [4]mgl32.Vec3
		normal  mgl32.Vec3
	}{
		// Front
		{[4]mgl32.Vec3{{minX, minY, maxZ}, {maxX, maxY, maxZ}, {minX, maxY, maxZ}, {maxX, minY, maxZ}}, mgl32.Vec3{0, 0, 1}},
		// Back
		{[4]mgl32.Vec3{{maxX, minY, minZ}, {minX, maxY, minZ}, {maxX, maxY, minZ}, {minX, minY, minZ}}, mgl32.Vec3{0, 0, -1}},
		// Left
		{[4]mgl32.Vec3{{minX, minY, minZ}, {minX, maxY, maxZ}, {minX, maxY, minZ}, {minX, minY, maxZ}}, mgl32.Vec3{-1, 0, 0}},
		// Right
		{[4]mgl32.Vec3{{maxX, minY, maxZ}, {maxX, maxY, minZ}, {maxX, maxY, maxZ}, {maxX, minY, minZ}}, mgl32.Vec3{1, 0, 0}},
		// Bottom
		{[4]mgl32.Vec3{{maxX, minY, maxZ}, {minX, minY, minZ}, {maxX, minY, minZ}, {minX, minY, maxZ}}, mgl32.Vec3{0, -1, 0}},
		// Top
		{[4]mgl32.Vec3{{minX, maxY, maxZ}, {maxX, maxY, minZ}, {minX, maxY, minZ}, {maxX, maxY, maxZ}}, mgl32.Vec3{0, 1, 0}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {tileX, tileY}, {0, tileY}, {tileX, 0}}

	for f, face := range faces {
		for v := 0; v < 4; v++ {
			vertex := &config.Vertices[f*4+v]
			vertex.Position = face.corners[v]
			vertex.Normal = face.normal
			vertex.Texcoord = uvs[v]
		}
		offset := uint32(f * 4)
		copy(config.Indices[f*6:], []uint32{offset + 0, offset + 1, offset + 2, offset + 0, offset + 3, offset + 1})
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
	if len(materialName) > 0 {
		config.MaterialName = materialName
	} else {
		config.MaterialName = metadata.DefaultMaterialName
	}
	return config, nil
}

/**
 * @brief Generates the configuration for a 2D quad with its origin in the
 * top-left corner, used by UI elements.
 *
 * @param width The width of the quad. Must be non-zero.
 * @param height The height of the quad. Must be non-zero.
 * @param name The name of the generated geometry.
 * @param materialName The name of the material to be used.
 * @return A geometry configuration which can then be fed into AcquireFromConfig.
 */
func (gs *GeometrySystem) GenerateQuadConfig(width, height float32, name, materialName string) (*metadata.GeometryConfig, error) {
	if width == 0 {
		core.LogWarn("width must be nonzero, defaulting to one")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("height must be nonzero, defaulting to one")
		height = 1.0
	}
	config := &metadata.GeometryConfig{
		Vertices2D: []math.Vertex2D{
			{Position: mgl32.Vec2{0, 0}, Texcoord: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec2{width, height}, Texcoord: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec2{0, height}, Texcoord: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec2{width, 0}, Texcoord: mgl32.Vec2{1, 0}},
		},
		Indices: []uint32{2, 1, 0, 3, 0, 1},
	}
	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
	if len(materialName) > 0 {
		config.MaterialName = materialName
	} else {
		config.MaterialName = metadata.DefaultMaterialName
	}
	return config, nil
}

func (gs *GeometrySystem) createDefaultGeometries() error {
	sphereConfig, err := gs.GenerateSphereConfig(1.0, defaultSphereRings, defaultSphereSectors, metadata.DefaultGeometryName, metadata.DefaultMaterialName)
	if err != nil {
		return err
	}
	gs.DefaultGeometry = &metadata.Geometry{
		ID:         metadata.InvalidID,
		InternalID: metadata.InvalidID,
		Generation: metadata.InvalidIDUint16,
		Name:       metadata.DefaultGeometryName,
	}
	if !gs.renderer.CreateGeometry(gs.DefaultGeometry, sphereConfig) {
		return fmt.Errorf("failed to create the default geometry")
	}
	gs.DefaultGeometry.Material = gs.materialSystem.GetDefault()

	quadConfig, err := gs.GenerateQuadConfig(10.0, 10.0, metadata.DefaultGeometryName, metadata.DefaultMaterialName)
	if err != nil {
		return err
	}
	gs.Default2DGeometry = &metadata.Geometry{
		ID:         metadata.InvalidID,
		InternalID: metadata.InvalidID,
		Generation: metadata.InvalidIDUint16,
		Name:       metadata.DefaultGeometryName,
	}
	if !gs.renderer.CreateGeometry(gs.Default2DGeometry, quadConfig) {
		return fmt.Errorf("failed to create the default 2D geometry")
	}
	gs.Default2DGeometry.Material = gs.materialSystem.GetDefault()

	return nil
}

func (gs *GeometrySystem) createGeometry(config *metadata.GeometryConfig, geometry *metadata.Geometry) error {
	if !gs.renderer.CreateGeometry(geometry, config) {
		// Invalidate the entry.
		gs.RegisteredGeometries[geometry.ID].ReferenceCount = 0
		gs.RegisteredGeometries[geometry.ID].AutoRelease = false
		geometry.ID = metadata.InvalidID
		geometry.Generation = metadata.InvalidIDUint16
		geometry.InternalID = metadata.InvalidID
		return fmt.Errorf("renderer failed to upload geometry '%s'", config.Name)
	}

	geometry.Name = config.Name

	// Acquire the material.
	if len(config.MaterialName) > 0 {
		material, err := gs.materialSystem.Acquire(config.MaterialName)
		if err != nil {
			core.LogWarn("geometry '%s' references unknown material '%s', using the default", config.Name, config.MaterialName)
			material = gs.materialSystem.GetDefault()
		}
		geometry.Material = material
	}
	return nil
}

func (gs *GeometrySystem) destroyGeometry(geometry *metadata.Geometry) {
	gs.renderer.DestroyGeometry(geometry)
	geometry.InternalID = metadata.InvalidID
	geometry.Generation = metadata.InvalidIDUint16
	geometry.ID = metadata.InvalidID
	geometry.Name = ""

	// Release the material.
	if geometry.Material != nil && len(geometry.Material.Name) > 0 {
		gs.materialSystem.Release(geometry.Material.Name)
		geometry.Material = nil
	}
}
