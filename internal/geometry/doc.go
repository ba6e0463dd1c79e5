// Package geometry walks object volumes over the voxel grid.
//
// A Volume yields local coordinates; Shape writes each of them through a
// material setter and Condition tests each of them against the world.
// Every local coordinate passes through the object's Transform on its way
// to the world.
package geometry
