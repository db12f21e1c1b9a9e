// Package value implements the fixed-layout value types stored in package
// objects: vectors, rotations, bounds, colors, GUIDs, packed vertex
// attributes and the index, mip and vertex containers built from them.
//
// Every type has a Serialize method that both reads and writes, depending on
// the direction of the stream:
//
//	var bounds value.BoxSphereBounds
//	bounds.Serialize(s)
//	if err := s.Err(); err != nil {
//	    return err
//	}
package value
