package generator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimensions means the grid cannot hold a single square.
	ErrInvalidDimensions = errors.New("generator: invalid dimensions")
	// ErrInvalidParameter means a probability, threshold or size is out of range.
	ErrInvalidParameter = errors.New("generator: invalid parameter")
	// ErrEmptyRoomSet means no space region survived pruning.
	ErrEmptyRoomSet = errors.New("generator: no rooms survived pruning")
)

// Params is the generation-parameter bundle.
type Params struct {
	Width         int    `yaml:"width" json:"width"`
	Height        int    `yaml:"height" json:"height"`
	FillPercent   int    `yaml:"fill_percent" json:"fill_percent"`
	Seed          string `yaml:"seed" json:"seed"`
	UseRandomSeed bool   `yaml:"use_random_seed" json:"use_random_seed"`

	Smoothness   int `yaml:"smoothness" json:"smoothness"` // wall-neighbour threshold
	SmoothPasses int `yaml:"smooth_passes" json:"smooth_passes"`

	PruneWalls    bool `yaml:"prune_walls" json:"prune_walls"`
	WallTolerance int  `yaml:"wall_tolerance" json:"wall_tolerance"`
	PruneRooms    bool `yaml:"prune_rooms" json:"prune_rooms"`
	RoomTolerance int  `yaml:"room_tolerance" json:"room_tolerance"`

	ConnectRooms bool `yaml:"connect_rooms" json:"connect_rooms"`
	BorderSize   int  `yaml:"border_size" json:"border_size"`

	SquareSize float64 `yaml:"square_size" json:"square_size"`
	WallHeight float64 `yaml:"wall_height" json:"wall_height"`
}

// Parameter ranges.
const (
	MinDimension    = 2
	MaxDimension    = 8192
	MaxBorderSize   = 1024
	MaxFillPercent  = 100
	MaxSmoothness   = 8
	MaxSmoothPasses = 5
)

// DefaultParams returns a 128x72 cave with the usual tuning.
func DefaultParams() Params {
	return Params{
		Width:         128,
		Height:        72,
		FillPercent:   47,
		Seed:          "cave",
		Smoothness:    4,
		SmoothPasses:  5,
		PruneWalls:    true,
		WallTolerance: 50,
		PruneRooms:    true,
		RoomTolerance: 50,
		ConnectRooms:  true,
		BorderSize:    5,
		SquareSize:    1,
		WallHeight:    5,
	}
}

// PaddedSize returns the grid size after the border is added. The product of
// the two sides fits in an int for any Params that passes Validate.
func (p Params) PaddedSize() (width, height int) {
	return p.Width + 2*p.BorderSize, p.Height + 2*p.BorderSize
}

// PaddedCells returns the number of cells in the padded grid.
func (p Params) PaddedCells() int {
	w, h := p.PaddedSize()
	return w * h
}

// Validate checks every field against its declared range. Dimension errors
// wrap ErrInvalidDimensions, all others wrap ErrInvalidParameter.
func (p Params) Validate() error {
	if p.Width < MinDimension || p.Height < MinDimension {
		return fmt.Errorf("%w: %dx%d, both sides must be at least %d",
			ErrInvalidDimensions, p.Width, p.Height, MinDimension)
	}
	if p.Width > MaxDimension || p.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d, neither side may exceed %d",
			ErrInvalidDimensions, p.Width, p.Height, MaxDimension)
	}
	if p.BorderSize > MaxBorderSize {
		return fmt.Errorf("%w: border size %d exceeds %d", ErrInvalidDimensions, p.BorderSize, MaxBorderSize)
	}
	if p.FillPercent < 0 || p.FillPercent > MaxFillPercent {
		return fmt.Errorf("%w: fill percentage %d not in [0,%d]", ErrInvalidParameter, p.FillPercent, MaxFillPercent)
	}
	if p.Smoothness < 0 || p.Smoothness > MaxSmoothness {
		return fmt.Errorf("%w: smoothness %d not in [0,%d]", ErrInvalidParameter, p.Smoothness, MaxSmoothness)
	}
	if p.SmoothPasses < 0 || p.SmoothPasses > MaxSmoothPasses {
		return fmt.Errorf("%w: smooth passes %d not in [0,%d]", ErrInvalidParameter, p.SmoothPasses, MaxSmoothPasses)
	}
	if p.WallTolerance < 0 {
		return fmt.Errorf("%w: wall tolerance %d is negative", ErrInvalidParameter, p.WallTolerance)
	}
	if p.RoomTolerance < 0 {
		return fmt.Errorf("%w: room tolerance %d is negative", ErrInvalidParameter, p.RoomTolerance)
	}
	if p.BorderSize < 0 {
		return fmt.Errorf("%w: border size %d is negative", ErrInvalidParameter, p.BorderSize)
	}
	if !(p.SquareSize > 0) || math.IsInf(p.SquareSize, 0) {
		return fmt.Errorf("%w: square size %v must be positive", ErrInvalidParameter, p.SquareSize)
	}
	if math.IsNaN(p.WallHeight) || math.IsInf(p.WallHeight, 0) {
		return fmt.Errorf("%w: wall height %v is not finite", ErrInvalidParameter, p.WallHeight)
	}
	return nil
}
