// Package capacity converts a room area into the cooling capacity it needs.
package capacity

import "math"

// DefaultCoefficient is the BTU needed per square metre.
const DefaultCoefficient = 340

// btuPerPowerUnit converts BTU into the secondary power unit shown to users.
const btuPerPowerUnit = 3.517

// Required returns area*coefficient rounded up to the next whole thousand BTU.
// It never rounds down. The area range is validated by the caller.
func Required(area float64, coefficient int) int {
	return int(math.Ceil(area*float64(coefficient)/1000)) * 1000
}

// ToPower expresses a BTU rating in the secondary power unit.
func ToPower(btu int) float64 {
	return float64(btu) / btuPerPowerUnit
}
