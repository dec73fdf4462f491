package utils

import "math"

// RoundHalfUp rounds to the nearest integer with .5 going towards positive infinity,
// so -2.5 becomes -2. math.Round would give -3.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTenth rounds to one decimal place using RoundHalfUp.
func RoundTenth(x float64) float64 {
	return RoundHalfUp(x*10) / 10
}
