// Package integrity verifies that a deployment can run: the storage
// bucket and source objects are reachable, the filter polygon resolves
// to exactly one region and the persisted tables have the expected
// shape.
package integrity
