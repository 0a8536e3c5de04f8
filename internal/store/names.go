package store

import "math/rand"

// Space names are two dictionary words, in the spirit of the default
// "Sunny Meadow" style names the product ships with.
var nameAdjectives = []string{
	"amber", "bright", "calm", "cosmic", "crimson", "dusty", "gentle",
	"golden", "hidden", "lunar", "misty", "quiet", "rustic", "silver",
	"sunny", "velvet", "wandering", "wild",
}

var nameNouns = []string{
	"atlas", "canyon", "cove", "garden", "harbor", "lantern", "meadow",
	"orchard", "prairie", "river", "signal", "summit", "terrace", "tide",
	"valley", "willow",
}

func randomSpaceName() string {
	adj := nameAdjectives[rand.Intn(len(nameAdjectives))]
	noun := nameNouns[rand.Intn(len(nameNouns))]
	return adj + " " + noun
}
