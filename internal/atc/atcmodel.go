package atc

// Exchange is one variant of a controller reply.
type Exchange struct {
	ATC string `yaml:"atc" json:"atc"`
	// Readback marks replies the pilot must read back.
	Readback bool `yaml:"readback" json:"readback"`
}

// Transmission is one controller reply in written and spoken form.
type Transmission struct {
	Station string `json:"station"`
	Written string `json:"written"`
	Spoken  string `json:"spoken"`
	// Readback is the pilot readback the reply calls for, if any.
	Readback string `json:"readback,omitempty"`
}

// phrase keys for replies that do not come from a stage intent
const (
	phraseMayday           = "Mayday"
	phrasePanPan           = "PanPan"
	phraseCancelEmergency  = "CancelEmergency"
	phraseSquawk           = "Squawk"
	phraseIdent            = "Ident"
	phraseGoAround         = "GoAround"
	phraseSayAgain         = "SayAgain"
	phraseSayAgainCallsign = "SayAgainCallsign"
)

var outcomePhrases = []string{
	phraseMayday, phrasePanPan, phraseCancelEmergency, phraseSquawk,
	phraseIdent, phraseGoAround, phraseSayAgain, phraseSayAgainCallsign,
}

var phoneticMap = map[string]string{
	"A": "alpha", "B": "bravo", "C": "charlie", "D": "delta", "E": "echo",
	"F": "foxtrot", "G": "golf", "H": "hotel", "I": "india", "J": "juliett",
	"K": "kilo", "L": "lima", "M": "mike", "N": "november", "O": "oscar",
	"P": "papa", "Q": "quebec", "R": "romeo", "S": "sierra", "T": "tango",
	"U": "uniform", "V": "victor", "W": "whiskey", "X": "x-ray", "Y": "yankee",
	"Z": "zulu",
}

var numericMap = map[rune]string{
	'0': "zero", '1': "one", '2': "two", '3': "three", '4': "four",
	'5': "five", '6': "six", '7': "seven", '8': "eight", '9': "niner",
}
