package core

import "fmt"

// Identifiers are stable uint32 handles for renderable objects (meshes,
// UI texts) so render views can refer to them across frames.

var (
	idOwners []interface{}
	idFree   []uint32
)

// IdentifierAcquireNewID hands out a unique id for the given owner,
// reusing released slots before growing the table.
func IdentifierAcquireNewID(owner interface{}) uint32 {
	if n := len(idFree); n > 0 {
		id := idFree[n-1]
		idFree = idFree[:n-1]
		idOwners[id] = owner
		return id
	}
	idOwners = append(idOwners, owner)
	return uint32(len(idOwners) - 1)
}

// IdentifierReleaseID returns an id to the pool so a later acquire can
// reuse it. Releasing an id that is not in use leaves the table untouched.
func IdentifierReleaseID(id uint32) error {
	if id >= uint32(len(idOwners)) {
		return fmt.Errorf("identifier release: id %d out of range (max %d)", id, len(idOwners))
	}
	if idOwners[id] == nil {
		return fmt.Errorf("identifier release: id %d is not in use", id)
	}
	idOwners[id] = nil
	idFree = append(idFree, id)
	return nil
}
