package distfield

import "github.com/san-kum/chompkit/internal/voxel"

const (
	numDirections = 27

	// selfDirection is the tag of seed voxels, the (0,0,0) direction.
	selfDirection = 13
)

func directionNumber(dx, dy, dz int) int {
	return (dx+1)*9 + (dy+1)*3 + dz + 1
}

// neighborhoods[0][dir] lists all 26 neighbors and is used for seeds.
// neighborhoods[1][dir] lists the face neighbors that do not step back
// against dir.
var neighborhoods = buildNeighborhoods()

func buildNeighborhoods() [2][numDirections][]voxel.Coord {
	var hoods [2][numDirections][]voxel.Coord
	for n := 0; n < 2; n++ {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					dir := directionNumber(dx, dy, dz)
					for tdx := -1; tdx <= 1; tdx++ {
						for tdy := -1; tdy <= 1; tdy++ {
							for tdz := -1; tdz <= 1; tdz++ {
								if tdx == 0 && tdy == 0 && tdz == 0 {
									continue
								}
								if n >= 1 {
									if abs(tdx)+abs(tdy)+abs(tdz) != 1 {
										continue
									}
									if dx*tdx < 0 || dy*tdy < 0 || dz*tdz < 0 {
										continue
									}
								}
								hoods[n][dir] = append(hoods[n][dir], voxel.Coord{X: tdx, Y: tdy, Z: tdz})
							}
						}
					}
				}
			}
		}
	}
	return hoods
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
