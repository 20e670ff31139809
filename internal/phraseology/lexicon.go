package phraseology

// Break separates clauses in a normalised message.
const Break = "|"

var phoneticMap = map[string]string{
	"alpha": "a", "alfa": "a", "bravo": "b", "charlie": "c", "delta": "d",
	"echo": "e", "foxtrot": "f", "golf": "g", "hotel": "h", "india": "i",
	"juliet": "j", "juliett": "j", "kilo": "k", "lima": "l", "mike": "m",
	"november": "n", "oscar": "o", "papa": "p", "quebec": "q", "romeo": "r",
	"sierra": "s", "tango": "t", "uniform": "u", "victor": "v", "whiskey": "w",
	"whisky": "w", "xray": "x", "yankee": "y", "zulu": "z",
}

var numericMap = map[string]string{
	"zero": "0", "oh": "0",
	"one": "1", "wun": "1",
	"two": "2",
	"three": "3", "tree": "3",
	"four": "4", "fower": "4",
	"five": "5", "fife": "5",
	"six": "6",
	"seven": "7",
	"eight": "8", "ait": "8",
	"nine": "9", "niner": "9",
}

var multipliers = map[string]int{
	"thousand": 1000,
	"hundred":  100,
}

// station type words that mark an addressee
var stationWords = map[string]bool{
	"ground": true, "tower": true, "information": true, "radio": true,
	"approach": true, "radar": true, "director": true, "delivery": true,
	"control": true, "centre": true, "center": true,
}

// words that appear ahead of a callsign without naming a station
var commonWords = map[string]bool{
	"good": true, "morning": true, "afternoon": true, "evening": true, "day": true,
	"hello": true, "roger": true, "wilco": true, "affirm": true, "negative": true,
	"mayday": true, "pan": true, "cancel": true, "squawk": true, "squawking": true, "ident": true,
	"runway": true, "qnh": true, "altimeter": true, "holding": true, "hold": true, "point": true,
	"feet": true, "altitude": true, "decimal": true, "stand": true, "apron": true, "parking": true,
	"to": true, "and": true, "on": true, "at": true, "for": true, "with": true, "the": true,
}

// words spoken before a callsign that are not part of the addressee
var prefixWords = map[string]bool{
	"student": true, "helicopter": true, "police": true, "super": true,
}

var runwaySuffixes = map[string]string{
	"l": "L", "left": "L",
	"r": "R", "right": "R",
	"c": "C", "centre": "C", "center": "C",
}

// expansions applied before phonetic and numeric mapping
var compoundWords = map[string][]string{
	"panpan": {"pan", "pan"},
	"ft":     {"feet"},
}
