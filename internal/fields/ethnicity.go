package fields

// EthnicityCategory is one canonical race/ethnicity bucket and the phrasings that map to it.
type EthnicityCategory struct {
	Name    string
	Aliases []string
}

// HispanicOrLatino is the canonical name of the Hispanic/Latino category.
const HispanicOrLatino = "hispanic or latino"

// EthnicityCategories lists the seven canonical categories. A value is mapped to the first
// category whose name or aliases it matches.
var EthnicityCategories = []EthnicityCategory{
	{Name: "asian", Aliases: []string{"asian", "east asian", "south asian", "southeast asian", "asian american"}},
	{Name: "white", Aliases: []string{"white", "caucasian", "european", "white/caucasian"}},
	{Name: "black or african american", Aliases: []string{"black", "african american", "african-american", "black or african", "african"}},
	{Name: HispanicOrLatino, Aliases: []string{"hispanic", "latino", "latina", "latinx", "hispanic or latino", "hispanic/latino"}},
	{Name: "american indian or alaska native", Aliases: []string{"american indian", "alaska native", "native american", "indigenous", "first nations"}},
	{Name: "native hawaiian or other pacific islander", Aliases: []string{"native hawaiian", "pacific islander", "hawaiian", "polynesian"}},
	{Name: "two or more races", Aliases: []string{"two or more", "multiracial", "mixed", "multiple races", "biracial", "multi-racial"}},
}

// OtherRaceMarkers are option-text fragments that indicate a full race picker rather than a
// standalone Hispanic/Latino question. "asian" is checked separately so that "caucasian"
// does not count twice.
var OtherRaceMarkers = []string{
	"white", "caucasian", "black", "african", "native american", "american indian",
	"pacific islander", "two or more",
}
