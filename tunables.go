package dbvt

import "fmt"

// Default tunable values (§6).
const (
	// DefaultMaxNonbalancedLevel is the threshold h - log2(n) above which
	// Setup prefers a top-down rebuild over incremental rotations.
	DefaultMaxNonbalancedLevel = 10
	// DefaultIncrementalBalancePasses is the number of local rotations
	// Setup performs per call when it selects incremental balancing.
	DefaultIncrementalBalancePasses = 10
	// DefaultTopdownBalanceThreshold is the leaf-count at which top-down
	// recursion stops subdividing and forms a linear-chain subtree.
	DefaultTopdownBalanceThreshold = 2
	// DefaultTopdownLevel is the starting depth BalanceTopdown passes to
	// the top-down builder.
	DefaultTopdownLevel = 0
	// DefaultInitLevel is the starting depth bulk construction passes to
	// the top-down builder.
	DefaultInitLevel = 0
)

// Config holds the manager-level tunables of §6. NewManager normalizes
// zero-valued numeric fields to their defaults (see normalized); the two
// octree flags have no such fallback, so start from DefaultConfig and
// override selectively, mirroring this corpus's Config-plus-validate
// convention.
type Config struct {
	// MaxNonbalancedLevel is h - log2(n); above it, Setup rebuilds top-down
	// instead of rotating incrementally.
	MaxNonbalancedLevel int
	// IncrementalBalancePasses bounds local rotations per incremental Setup.
	IncrementalBalancePasses int
	// TopdownBalanceThreshold is the leaf count at which top-down
	// subdivision stops.
	TopdownBalanceThreshold int
	// TopdownLevel is the starting depth BalanceTopdown passes to the
	// top-down builder. The builder uses the centroid-median split at every
	// depth, so this value does not change the resulting tree.
	TopdownLevel int
	// InitLevel is the starting depth bulk construction passes to the
	// top-down builder; like TopdownLevel, it does not change the split.
	InitLevel int
	// FatMargin is the leaf-fattening margin applied on insert/update.
	FatMargin float64
	// OctreeAsGeometryCollide, if true, treats an octree query argument as
	// an opaque AABB leaf for Collide instead of dispatching to the
	// specialized grid traversal (§4.D, §6).
	OctreeAsGeometryCollide bool
	// OctreeAsGeometryDistance is the Distance analogue of
	// OctreeAsGeometryCollide.
	OctreeAsGeometryDistance bool
}

// DefaultConfig returns the tunables listed in §6's table.
func DefaultConfig() Config {
	return Config{
		MaxNonbalancedLevel:      DefaultMaxNonbalancedLevel,
		IncrementalBalancePasses: DefaultIncrementalBalancePasses,
		TopdownBalanceThreshold:  DefaultTopdownBalanceThreshold,
		TopdownLevel:             DefaultTopdownLevel,
		InitLevel:                DefaultInitLevel,
		FatMargin:                DefaultFatMargin,
		OctreeAsGeometryCollide:  true,
		OctreeAsGeometryDistance: false,
	}
}

// normalized fills in zero-valued fields with their defaults, the way the
// corpus's btree.Config.normalized does.
func (c Config) normalized() Config {
	if c.MaxNonbalancedLevel == 0 {
		c.MaxNonbalancedLevel = DefaultMaxNonbalancedLevel
	}
	if c.IncrementalBalancePasses == 0 {
		c.IncrementalBalancePasses = DefaultIncrementalBalancePasses
	}
	if c.TopdownBalanceThreshold == 0 {
		c.TopdownBalanceThreshold = DefaultTopdownBalanceThreshold
	}
	if c.FatMargin == 0 {
		c.FatMargin = DefaultFatMargin
	}
	return c
}

func (c Config) validate() error {
	c = c.normalized()
	if c.MaxNonbalancedLevel < 0 {
		return fmt.Errorf("%w: MaxNonbalancedLevel must be >= 0", ErrInvalidConfig)
	}
	if c.IncrementalBalancePasses < 0 {
		return fmt.Errorf("%w: IncrementalBalancePasses must be >= 0", ErrInvalidConfig)
	}
	if c.TopdownBalanceThreshold < 1 {
		return fmt.Errorf("%w: TopdownBalanceThreshold must be >= 1", ErrInvalidConfig)
	}
	if c.TopdownLevel < 0 {
		return fmt.Errorf("%w: TopdownLevel must be >= 0", ErrInvalidConfig)
	}
	if c.InitLevel < 0 {
		return fmt.Errorf("%w: InitLevel must be >= 0", ErrInvalidConfig)
	}
	if c.FatMargin < 0 {
		return fmt.Errorf("%w: FatMargin must be >= 0", ErrInvalidConfig)
	}
	return nil
}
