package domain

// StopType is the semantic category of a route stop.
type StopType string

const (
	StopStart   StopType = "start"
	StopPickup  StopType = "pickup"
	StopFuel    StopType = "fuel"
	StopRest    StopType = "rest"
	StopDropoff StopType = "dropoff"
	StopEnd     StopType = "end"
)

// Valid reports whether t is one of the known stop categories.
func (t StopType) Valid() bool {
	switch t {
	case StopStart, StopPickup, StopFuel, StopRest, StopDropoff, StopEnd:
		return true
	}
	return false
}

// RouteStop is a single planned stop. Sequence is 0-based and unique within a
// trip; order follows stop category, not geography.
// Coordinates stay zero until an enrichment step fills them.
type RouteStop struct {
	Type            StopType
	Label           string
	Sequence        int
	DurationMinutes int
	Coordinates     Coordinates
}
