package material

// defaultMaterials is the built-in palette. Items that are not blocks are
// listed so that lookups can reject them explicitly.
var defaultMaterials = []Material{
	{ID: Air, Name: "air", Block: true},
	{ID: 1, Name: "stone", Block: true},
	{ID: 2, Name: "grass", Block: true},
	{ID: 3, Name: "dirt", Block: true},
	{ID: 4, Name: "cobblestone", Block: true},
	{ID: 5, Name: "planks", Block: true},
	{ID: 6, Name: "sand", Block: true},
	{ID: 7, Name: "gravel", Block: true},
	{ID: 8, Name: "bedrock", Block: true},
	{ID: 9, Name: "water", Block: true},
	{ID: 10, Name: "lava", Block: true},
	{ID: 11, Name: "log", Block: true},
	{ID: 12, Name: "leaves", Block: true, DefaultData: 4},
	{ID: 13, Name: "glass", Block: true},
	{ID: 14, Name: "wool", Block: true},
	{ID: 15, Name: "mossy_cobblestone", Block: true},
	{ID: 16, Name: "obsidian", Block: true},
	{ID: 17, Name: "ice", Block: true},
	{ID: 18, Name: "snow", Block: true},
	{ID: 19, Name: "clay", Block: true},
	{ID: 20, Name: "sandstone", Block: true, DefaultData: 2},
	{ID: 21, Name: "coal_ore", Block: true},
	{ID: 22, Name: "iron_ore", Block: true},
	{ID: 23, Name: "gold_ore", Block: true},
	{ID: 24, Name: "glowstone", Block: true},
	{ID: 256, Name: "stick"},
	{ID: 257, Name: "apple"},
	{ID: 258, Name: "diamond"},
}

var defaultPalette = func() *Palette {
	p, err := NewPalette(defaultMaterials...)
	if err != nil {
		panic(err)
	}
	return p
}()

// DefaultPalette returns the shared built-in palette.
func DefaultPalette() *Palette {
	return defaultPalette
}
