package cursor

import "math"

func bitsToFloat64(bits uint64) float64 { return math.Float64frombits(bits) }

func float64ToBits(v float64) uint64 { return math.Float64bits(v) }
