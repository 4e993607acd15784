package genre

// DefaultGenre is returned when no classification stage matches.
const DefaultGenre = "Pop"

// Canonical is the fixed top-level genre vocabulary. Every classified
// genre collapses into one of these names.
var Canonical = []string{
	"Rock",
	"Metal",
	"Punk",
	"Electronic",
	"Hip-Hop",
	"R&B",
	"Pop",
	"Jazz",
	"Blues",
	"Classical",
	"Country",
	"Folk",
	"Reggae",
	"Latin",
	"Soundtrack",
	"World",
}

// Pair is one ordered mapping entry. Tables are slices, not maps:
// match order is part of the classifier contract and must be stable.
type Pair struct {
	Key   string
	Genre string
}

// defaultKeywords maps free-text substrings to canonical genres.
// More specific keywords come before the broad ones they contain
// ("punk" and "metal" before "rock", "pop punk" would otherwise land in Pop).
var defaultKeywords = []Pair{
	{"hip hop", "Hip-Hop"},
	{"hip-hop", "Hip-Hop"},
	{"rap", "Hip-Hop"},
	{"trap", "Hip-Hop"},
	{"grime", "Hip-Hop"},
	{"metal", "Metal"},
	{"thrash", "Metal"},
	{"doom", "Metal"},
	{"punk", "Punk"},
	{"hardcore", "Punk"},
	{"emo", "Punk"},
	{"grunge", "Rock"},
	{"alternative", "Rock"},
	{"indie", "Rock"},
	{"rock", "Rock"},
	{"techno", "Electronic"},
	{"house", "Electronic"},
	{"trance", "Electronic"},
	{"dubstep", "Electronic"},
	{"drum & bass", "Electronic"},
	{"drum and bass", "Electronic"},
	{"ambient", "Electronic"},
	{"edm", "Electronic"},
	{"electro", "Electronic"},
	{"synth", "Electronic"},
	{"r&b", "R&B"},
	{"rnb", "R&B"},
	{"soul", "R&B"},
	{"funk", "R&B"},
	{"motown", "R&B"},
	{"jazz", "Jazz"},
	{"swing", "Jazz"},
	{"bebop", "Jazz"},
	{"blues", "Blues"},
	{"classical", "Classical"},
	{"symphony", "Classical"},
	{"orchestra", "Classical"},
	{"baroque", "Classical"},
	{"opera", "Classical"},
	{"bluegrass", "Country"},
	{"country", "Country"},
	{"americana", "Folk"},
	{"singer-songwriter", "Folk"},
	{"folk", "Folk"},
	{"acoustic", "Folk"},
	{"reggaeton", "Latin"},
	{"reggae", "Reggae"},
	{"dancehall", "Reggae"},
	{"ska", "Reggae"},
	{"dub", "Reggae"},
	{"salsa", "Latin"},
	{"flamenco", "Latin"},
	{"tango", "Latin"},
	{"latin", "Latin"},
	{"soundtrack", "Soundtrack"},
	{"score", "Soundtrack"},
	{"ost", "Soundtrack"},
	{"theme", "Soundtrack"},
	{"celtic", "World"},
	{"afrobeat", "World"},
	{"world", "World"},
	{"disco", "Pop"},
	{"dance", "Pop"},
	{"pop", "Pop"},
}

// defaultArtists maps well-known artist names to canonical genres. Consulted
// only after the keyword stages come up empty; user mapping overrides from
// the config are checked ahead of these.
var defaultArtists = []Pair{
	{"Nirvana", "Rock"},
	{"Pearl Jam", "Rock"},
	{"Led Zeppelin", "Rock"},
	{"Pink Floyd", "Rock"},
	{"Radiohead", "Rock"},
	{"Nine Inch Nails", "Rock"},
	{"Queen", "Rock"},
	{"Metallica", "Metal"},
	{"Black Sabbath", "Metal"},
	{"Iron Maiden", "Metal"},
	{"Slayer", "Metal"},
	{"Ramones", "Punk"},
	{"Sex Pistols", "Punk"},
	{"Daft Punk", "Electronic"},
	{"Aphex Twin", "Electronic"},
	{"The Chemical Brothers", "Electronic"},
	{"Kraftwerk", "Electronic"},
	{"Wu-Tang Clan", "Hip-Hop"},
	{"A Tribe Called Quest", "Hip-Hop"},
	{"Kendrick Lamar", "Hip-Hop"},
	{"Nas", "Hip-Hop"},
	{"Aretha Franklin", "R&B"},
	{"Marvin Gaye", "R&B"},
	{"Stevie Wonder", "R&B"},
	{"Miles Davis", "Jazz"},
	{"John Coltrane", "Jazz"},
	{"Thelonious Monk", "Jazz"},
	{"B.B. King", "Blues"},
	{"Muddy Waters", "Blues"},
	{"Johann Sebastian Bach", "Classical"},
	{"Ludwig van Beethoven", "Classical"},
	{"Wolfgang Amadeus Mozart", "Classical"},
	{"Johnny Cash", "Country"},
	{"Dolly Parton", "Country"},
	{"Bob Dylan", "Folk"},
	{"Joni Mitchell", "Folk"},
	{"Bob Marley", "Reggae"},
	{"Buena Vista Social Club", "Latin"},
	{"John Williams", "Soundtrack"},
	{"Hans Zimmer", "Soundtrack"},
	{"Ali Farka Touré", "World"},
	{"Madonna", "Pop"},
	{"Michael Jackson", "Pop"},
	{"ABBA", "Pop"},
}

// IsCanonical reports whether name is a member of the fixed taxonomy.
func IsCanonical(name string) bool {
	for _, g := range Canonical {
		if g == name {
			return true
		}
	}
	return false
}
