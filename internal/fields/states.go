package fields

import "strings"

// StateNames maps lowercase USPS codes to lowercase full names for the 50 states and DC.
var StateNames = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas", "ca": "california",
	"co": "colorado", "ct": "connecticut", "de": "delaware", "fl": "florida", "ga": "georgia",
	"hi": "hawaii", "id": "idaho", "il": "illinois", "in": "indiana", "ia": "iowa",
	"ks": "kansas", "ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi", "mo": "missouri",
	"mt": "montana", "ne": "nebraska", "nv": "nevada", "nh": "new hampshire", "nj": "new jersey",
	"nm": "new mexico", "ny": "new york", "nc": "north carolina", "nd": "north dakota", "oh": "ohio",
	"ok": "oklahoma", "or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah", "vt": "vermont",
	"va": "virginia", "wa": "washington", "wv": "west virginia", "wi": "wisconsin", "wy": "wyoming",
	"dc": "district of columbia",
}

// StateCodes is the reverse of StateNames.
var StateCodes = func() map[string]string {
	m := make(map[string]string, len(StateNames))
	for code, name := range StateNames {
		m[name] = code
	}
	return m
}()

// NormalizeState returns the two-letter code and full name for a state given in either
// form. Unknown values are returned lowercased in both positions.
func NormalizeState(value string) (code, name string) {
	v := strings.ToLower(strings.TrimSpace(value))
	code, name = v, v
	if full, ok := StateNames[v]; ok {
		name = full
	}
	if abbrev, ok := StateCodes[v]; ok {
		code = abbrev
	}
	return code, name
}
