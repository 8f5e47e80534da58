package timetravel

// Era is a destination in time. Keywords feed the accuracy score.
type Era struct {
	Name     string   `json:"name"`
	Year     string   `json:"year"`
	Keywords []string `json:"-"`
}

var eras = []Era{
	{
		Name:     "Ancient Egypt",
		Year:     "2500 BC",
		Keywords: []string{"pharaoh", "pyramid", "nile", "papyrus", "scribe", "temple", "sphinx", "mummy", "hieroglyph", "hieroglyphs"},
	},
	{
		Name:     "Roman Empire",
		Year:     "100 AD",
		Keywords: []string{"emperor", "senate", "legion", "gladiator", "forum", "toga", "chariot", "aqueduct", "colosseum", "denarius"},
	},
	{
		Name:     "Medieval Europe",
		Year:     "1200",
		Keywords: []string{"knight", "castle", "king", "queen", "peasant", "monk", "sword", "feast", "plague", "tournament"},
	},
	{
		Name:     "Renaissance Italy",
		Year:     "1500",
		Keywords: []string{"painter", "fresco", "patron", "medici", "sculpture", "inventor", "printing", "florence", "venice", "canvas"},
	},
	{
		Name:     "Wild West",
		Year:     "1870",
		Keywords: []string{"sheriff", "saloon", "horse", "stagecoach", "outlaw", "gold", "railroad", "ranch", "cowboy", "frontier"},
	},
	{
		Name:     "Roaring Twenties",
		Year:     "1925",
		Keywords: []string{"jazz", "flapper", "speakeasy", "prohibition", "radio", "automobile", "charleston", "gatsby", "telegram", "bootlegger"},
	},
	{
		Name:     "Space Age",
		Year:     "1969",
		Keywords: []string{"rocket", "astronaut", "moon", "orbit", "mission", "capsule", "launch", "satellite", "nasa", "countdown"},
	},
	{
		Name:     "Far Future",
		Year:     "3000",
		Keywords: []string{"robot", "hologram", "teleport", "android", "colony", "starship", "cyborg", "quantum", "galaxy", "laser"},
	},
}

var roles = []string{
	"Historian",
	"Inventor",
	"Diplomat",
	"Spy",
	"Merchant",
	"Healer",
	"Artist",
	"Explorer",
}

var scenarios = []string{
	"Your time machine breaks down. Convince a local to help you repair it.",
	"You accidentally reveal a future invention. Cover your tracks.",
	"A powerful leader asks you to predict the future. What do you say?",
	"You need food and shelter for the night without any local money.",
	"Someone suspects you are a time traveler. Blend in.",
	"You witness a famous moment in history. Do you intervene?",
	"You must deliver an urgent message across the city.",
	"A rival time traveler is trying to change history. Stop them.",
}
