// Package distfield maintains a dense 3-D field of distances to the nearest
// inserted obstacle point.
//
// Obstacles are seeded at distance zero and a wavefront is propagated outward
// through a bucket queue indexed by squared cell distance. Each voxel records
// the direction of the step that last updated it, and only neighbors
// consistent with propagating away from its nearest obstacle are examined
// again. Distances are kept as squared integers in cell units and only turned
// into world units when queried.
//
// Propagation stops at the configured maximum distance; voxels farther from
// every obstacle keep the sentinel value max_distance_sq.
//
// # Thread Safety
//
// A [Field] is not safe for concurrent mutation. Readers racing with
// [Field.AddPoints] or [Field.Reset] need external synchronization.
package distfield
