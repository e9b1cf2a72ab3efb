package core

import (
	"math/rand"
)

// RandomInUnitDisk generates a random point in a unit disk (for depth of field)
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomInUnitSphere generates a random point strictly inside a unit sphere
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float64() - 1,
			Y: 2*random.Float64() - 1,
			Z: 2*random.Float64() - 1,
		}
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomVec3 returns a vector with each component uniform in [lo, hi)
func RandomVec3(random *rand.Rand, lo, hi float64) Vec3 {
	return Vec3{
		X: lo + (hi-lo)*random.Float64(),
		Y: lo + (hi-lo)*random.Float64(),
		Z: lo + (hi-lo)*random.Float64(),
	}
}

// NewWorkerRandom derives an independent generator for one worker from a master seed
func NewWorkerRandom(masterSeed int64, workerID int) *rand.Rand {
	return rand.New(rand.NewSource(masterSeed + int64(workerID)))
}
