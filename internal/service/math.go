package service

import "math"

// round2 rounds to cents / two decimal places for API output
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pctOf returns part/whole*100, guarding divide-by-zero
func pctOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}
