package app

// DefaultConstellationID is the puzzle a new player starts on.
// Keep this centralized so hosts agree on the first puzzle without touching multiple call sites.
const DefaultConstellationID = "cassiopeia"
