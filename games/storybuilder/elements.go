package storybuilder

// Element is a story prompt the active player is asked to weave in.
type Element struct {
	Category string `json:"category"`
	Word     string `json:"word"`
}

var elements = []Element{
	{"character", "detective"},
	{"character", "dragon"},
	{"character", "grandmother"},
	{"character", "robot"},
	{"character", "pirate"},
	{"setting", "lighthouse"},
	{"setting", "desert"},
	{"setting", "library"},
	{"setting", "spaceship"},
	{"setting", "forest"},
	{"object", "umbrella"},
	{"object", "map"},
	{"object", "key"},
	{"object", "violin"},
	{"object", "lantern"},
	{"emotion", "jealousy"},
	{"emotion", "relief"},
	{"emotion", "wonder"},
	{"twist", "betrayal"},
	{"twist", "storm"},
	{"twist", "secret"},
}

var connectives = []string{
	"suddenly",
	"meanwhile",
	"however",
	"because",
	"although",
	"finally",
	"then",
	"but",
	"whispered",
	"until",
}
