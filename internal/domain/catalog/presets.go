package catalog

// FilterPreset is a named range used by the search UI
type FilterPreset struct {
	Key   string
	Label string
	Min   *float64
	Max   *float64
}

func ptr(v float64) *float64 { return &v }

// HeightPresets are the size buckets, in metres
var HeightPresets = []FilterPreset{
	{Key: "small", Label: "Small", Max: ptr(0.5)},
	{Key: "medium", Label: "Medium", Min: ptr(0.5), Max: ptr(1.5)},
	{Key: "large", Label: "Large", Min: ptr(1.5)},
}

// WeightPresets are the weight buckets, in kilograms
var WeightPresets = []FilterPreset{
	{Key: "light", Label: "Light", Max: ptr(20)},
	{Key: "medium", Label: "Medium", Min: ptr(20), Max: ptr(100)},
	{Key: "heavy", Label: "Heavy", Min: ptr(100)},
}

// SortOptions are the sort keys offered by the search UI, in display order.
// The client turns a key into a SortInput itself.
var SortOptions = []string{"number", "name", "height-asc", "height-desc", "weight-asc", "weight-desc"}
