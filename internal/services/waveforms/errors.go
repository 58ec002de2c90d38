package waveforms

// Resolution bounds for requested peak counts
const (
	MinResolution = 1
	MaxResolution = 10000
)
