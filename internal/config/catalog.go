package config

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Item describes the hidden object of one level.
// X and Y are fractions of the arena size so placement survives resizes.
type Item struct {
	Name     string
	X, Y     float64
	Radius   float64
	Color    RGB
	AudioCue string
	Tone     float64 // Hz of the one-shot found sound
	Facts    []string
}

var catalog = [MaxLevel]Item{
	{
		Name:     "Sleeping Owl",
		X:        0.62,
		Y:        0.41,
		Radius:   90,
		Color:    RGB{0xC8, 0x8A, 0x3C},
		AudioCue: "owl-hum",
		Tone:     523.25,
		Facts: []string{
			"Owls can turn their heads about two hundred and seventy degrees.",
			"A group of owls is called a parliament.",
			"Owl feathers have soft edges that make their flight almost silent.",
		},
	},
	{
		Name:     "Hidden Seashell",
		X:        0.23,
		Y:        0.68,
		Radius:   80,
		Color:    RGB{0xF2, 0xC6, 0xD0},
		AudioCue: "shell-wash",
		Tone:     587.33,
		Facts: []string{
			"Seashells are made mostly of calcium carbonate.",
			"The sound in a seashell is ambient noise echoing inside it.",
			"Some snails live in the same shell their whole life and grow it as they go.",
		},
	},
	{
		Name:     "Lost Compass",
		X:        0.78,
		Y:        0.22,
		Radius:   70,
		Color:    RGB{0x4C, 0x9A, 0xD8},
		AudioCue: "compass-tick",
		Tone:     659.25,
		Facts: []string{
			"The earliest compasses were made from lodestone.",
			"A compass needle points to magnetic north, not true north.",
			"Sailors used compasses for navigation as early as the eleventh century.",
		},
	},
	{
		Name:     "Glowing Firefly",
		X:        0.35,
		Y:        0.30,
		Radius:   60,
		Color:    RGB{0xE8, 0xF0, 0x48},
		AudioCue: "firefly-buzz",
		Tone:     698.46,
		Facts: []string{
			"Fireflies make light through a chemical reaction called bioluminescence.",
			"Firefly light is almost one hundred percent efficient and gives off little heat.",
			"Each firefly species flashes in its own pattern.",
		},
	},
	{
		Name:     "Ancient Coin",
		X:        0.55,
		Y:        0.80,
		Radius:   50,
		Color:    RGB{0xD4, 0xAF, 0x37},
		AudioCue: "coin-shimmer",
		Tone:     783.99,
		Facts: []string{
			"Some of the oldest known coins were struck in Lydia around 600 BC.",
			"Gold coins do not rust, which is why so many survive.",
			"Coin collecting is sometimes called the hobby of kings.",
		},
	},
}

// CatalogItem returns the hidden object for a level.
func CatalogItem(level int) Item {
	return catalog[ClampLevel(level)-1]
}
