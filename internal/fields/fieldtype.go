// Package fields holds the semantic field vocabulary of job-application forms and the
// declarative tables (keywords, autofill hints, states, ethnicity aliases) used to
// recognise and answer them.
package fields

// Type is a semantic field category an input element can be classified as.
type Type string

// Field types, in declaration order. The order is significant: when two types score
// identically during classification the one declared first wins.
const (
	FirstName             Type = "firstName"
	LastName              Type = "lastName"
	FullName              Type = "fullName"
	Email                 Type = "email"
	Phone                 Type = "phone"
	LinkedIn              Type = "linkedin"
	GitHub                Type = "github"
	Website               Type = "website"
	City                  Type = "city"
	State                 Type = "state"
	ZipCode               Type = "zipCode"
	Country               Type = "country"
	StreetAddress2        Type = "streetAddress2"
	StreetAddress         Type = "streetAddress"
	Company               Type = "company"
	Title                 Type = "title"
	School                Type = "school"
	Degree                Type = "degree"
	Major                 Type = "major"
	GPA                   Type = "gpa"
	JobSource             Type = "jobSource"
	Authorized            Type = "authorized"
	Sponsorship           Type = "sponsorship"
	Relocate              Type = "relocate"
	Over18                Type = "over18"
	Salary                Type = "salary"
	StartDate             Type = "startDate"
	Gender                Type = "gender"
	Ethnicity             Type = "ethnicity"
	Veteran               Type = "veteran"
	Disability            Type = "disability"
	Citizenship           Type = "citizenship"
	PreviouslyEmployed    Type = "previouslyEmployed"
	GovernmentEmployee    Type = "governmentEmployee"
	DealerPartnerSupplier Type = "dealerPartnerSupplier"
	RestrictiveCovenant   Type = "restrictiveCovenant"
	HybridSchedule        Type = "hybridSchedule"
	BusinessTravel        Type = "businessTravel"
	RelocAssist           Type = "relocAssist"
	YearsExp              Type = "yearsExp"
)

// All lists every field type in declaration order.
var All = []Type{
	FirstName, LastName, FullName, Email, Phone, LinkedIn, GitHub, Website,
	City, State, ZipCode, Country, StreetAddress2, StreetAddress,
	Company, Title, School, Degree, Major, GPA,
	JobSource, Authorized, Sponsorship, Relocate, Over18, Salary, StartDate,
	Gender, Ethnicity, Veteran, Disability, Citizenship,
	PreviouslyEmployed, GovernmentEmployee, DealerPartnerSupplier, RestrictiveCovenant,
	HybridSchedule, BusinessTravel, RelocAssist, YearsExp,
}

// order maps a type to its position in All.
var order = func() map[Type]int {
	m := make(map[Type]int, len(All))
	for i, t := range All {
		m[t] = i
	}
	return m
}()

// Order returns the declaration index of t, or -1 for an unknown type.
func Order(t Type) int {
	if i, ok := order[t]; ok {
		return i
	}
	return -1
}

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	_, ok := order[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

// AlwaysNo are liability questions answered "No" regardless of the profile.
var AlwaysNo = map[Type]bool{
	PreviouslyEmployed:    true,
	GovernmentEmployee:    true,
	DealerPartnerSupplier: true,
	RestrictiveCovenant:   true,
	RelocAssist:           true,
}

// YesNo are questions whose resolved value is exactly "Yes" or "No".
var YesNo = map[Type]bool{
	Authorized:     true,
	Sponsorship:    true,
	Relocate:       true,
	Over18:         true,
	HybridSchedule: true,
	BusinessTravel: true,
}

// IsAlwaysNo reports whether t is answered "No" by policy.
func (t Type) IsAlwaysNo() bool {
	return AlwaysNo[t]
}

// IsYesNo reports whether t is a yes/no question.
func (t Type) IsYesNo() bool {
	return YesNo[t]
}

// IsDemographic reports whether t is a voluntary EEO self-identification question.
func (t Type) IsDemographic() bool {
	switch t {
	case Gender, Ethnicity, Veteran, Disability:
		return true
	}
	return false
}
