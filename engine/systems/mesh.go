package systems

import (
	"fmt"

	mgl32 "github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/engine/renderer/metadata"
)

/**
 * @brief Tracks the meshes built from generated geometry. A mesh pairs a
 * geometry with the model matrix its owner rewrites every frame before the
 * render packet is built. All meshes in this engine come from generated
 * configs, there is no model file loading.
 */
type MeshSystem struct {
	geometrySystem *GeometrySystem
	// meshes tracks every live mesh by its unique id for shutdown cleanup.
	meshes map[uint32]*metadata.Mesh
}

func NewMeshSystem(gs *GeometrySystem) (*MeshSystem, error) {
	if gs == nil {
		return nil, fmt.Errorf("func NewMeshSystem requires a geometry system")
	}
	return &MeshSystem{
		geometrySystem: gs,
		meshes:         make(map[uint32]*metadata.Mesh),
	}, nil
}

func (msys *MeshSystem) Shutdown() error {
	for _, mesh := range msys.meshes {
		msys.destroyMesh(mesh)
	}
	msys.meshes = make(map[uint32]*metadata.Mesh)
	return nil
}

/**
 * @brief Creates a mesh by uploading the given geometry config.
 *
 * @param name The name of the mesh.
 * @param config The geometry configuration to upload.
 * @param autoRelease Indicates if the geometry should be unloaded when its reference count reaches 0.
 * @return The created mesh, or an error.
 */
func (msys *MeshSystem) CreateFromConfig(name string, config *metadata.GeometryConfig, autoRelease bool) (*metadata.Mesh, error) {
	geometry, err := msys.geometrySystem.AcquireFromConfig(config, autoRelease)
	if err != nil {
		return nil, err
	}
	return msys.register(name, geometry), nil
}

/**
 * @brief Creates a mesh around an already uploaded geometry, taking a
 * reference to it when it is registry managed.
 *
 * @param name The name of the mesh.
 * @param geometry The geometry to wrap.
 * @return The created mesh, or an error.
 */
func (msys *MeshSystem) CreateFromGeometry(name string, geometry *metadata.Geometry) (*metadata.Mesh, error) {
	if geometry == nil {
		return nil, fmt.Errorf("func CreateFromGeometry requires a geometry")
	}
	// Default geometries live outside the registry and are not counted.
	if geometry.ID != metadata.InvalidID {
		if _, err := msys.geometrySystem.AcquireByID(geometry.ID); err != nil {
			return nil, err
		}
	}
	return msys.register(name, geometry), nil
}

/**
 * @brief Destroys a mesh, releasing its reference to the geometry.
 *
 * @param mesh The mesh to destroy.
 */
func (msys *MeshSystem) Destroy(mesh *metadata.Mesh) {
	if mesh == nil {
		return
	}
	delete(msys.meshes, mesh.UniqueID)
	msys.destroyMesh(mesh)
}

func (msys *MeshSystem) register(name string, geometry *metadata.Geometry) *metadata.Mesh {
	mesh := &metadata.Mesh{
		Name:     name,
		Geometry: geometry,
		Model:    mgl32.Ident4(),
	}
	mesh.UniqueID = core.IdentifierAcquireNewID(mesh)
	msys.meshes[mesh.UniqueID] = mesh
	core.LogDebug("mesh '%s' created with id %d", name, mesh.UniqueID)
	return mesh
}

func (msys *MeshSystem) destroyMesh(mesh *metadata.Mesh) {
	if mesh.Geometry != nil && mesh.Geometry.ID != metadata.InvalidID {
		msys.geometrySystem.Release(mesh.Geometry)
	}
	mesh.Geometry = nil
	if err := core.IdentifierReleaseID(mesh.UniqueID); err != nil {
		core.LogWarn(err.Error())
	}
}
