package match

// Phrase tables used by the category strategies. Entries are lowercase.
var (
	// Placeholders are never candidates.
	Placeholders = []string{"", "select", "choose", "--", "select...", "please select"}

	NotVeteran = []string{"not a protected veteran", "not a veteran", "i am not"}

	DisabilityNoAnswer = []string{"do not wish to answer", "don't wish to answer", "prefer not", "decline to"}
	DisabilityYes      = []string{"yes, i have", "i have a disability"}
	DisabilityNo       = []string{"no, i do not", "no, i don't", "i do not have a disability"}

	// Decline marks an answer declining to self-identify.
	Decline = []string{"prefer not", "decline", "do not wish"}

	// DeclineValues are profile values meaning "decline to answer".
	DeclineValues = []string{"prefer not to say", "decline"}

	HispanicMarkers    = []string{"hispanic", "latino"}
	NotHispanicMarkers = []string{"not hispanic", "not latino", "non-hispanic", "non hispanic"}

	// raceNegations mark an option as explicitly not Hispanic in a full race picker.
	raceNegations = []string{"not hispanic", "not latino", "(not ", "non-hispanic", "non hispanic", "non-latino"}

	YesValues = []string{"yes", "true", "1"}
	NoValues  = []string{"no", "false", "0"}
)
