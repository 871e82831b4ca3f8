package fields

// Patterns maps each field type to the lowercase keywords that identify it in element
// attributes or question text. Matching is plain substring containment.
var Patterns = map[Type][]string{
	FirstName: {"first_name", "firstname", "first-name", "fname", "given_name", "givenname", "first name", "given name"},
	LastName:  {"last_name", "lastname", "last-name", "lname", "family_name", "familyname", "surname", "last name", "family name"},
	FullName:  {"full_name", "fullname", "name", "your_name", "yourname", "applicant_name", "candidate_name", "full name", "applicant name"},
	Email:     {"email", "e-mail", "email_address", "emailaddress", "e_mail", "email address"},
	Phone:     {"phone", "telephone", "mobile", "cell", "phone_number", "phonenumber", "tel", "contact_number", "phone number"},
	LinkedIn:  {"linkedin", "linked_in", "linkedin_url", "linkedinurl", "linkedin_profile", "linkedin url", "linkedin profile"},
	GitHub:    {"github", "git_hub", "github_url", "githuburl", "github_profile", "github url", "github profile"},
	Website:   {"website", "portfolio", "personal_site", "personalsite", "personal_website", "homepage", "portfolio url", "personal url", "personal site"},
	City:      {"city", "town", "locality", "city_name", "cityname", "city name"},
	State: {
		"state", "province", "administrative_area", "state_province", "state_region", "stateprovince",
		"addressstate", "address_state", "addressregion", "address_region", "region",
		"stateprovincecode", "state_code", "statecode", "state province",
	},
	ZipCode:        {"zip", "zipcode", "zip_code", "postal", "postal_code", "postalcode", "postal code"},
	Country:        {"country", "nation", "country_name", "country name"},
	StreetAddress2: {"address_line_2", "address2", "addressline2", "apt", "suite", "unit", "apartment", "address_2", "line2", "line_2", "apartment number"},
	StreetAddress:  {"street_address", "streetaddress", "street", "address_line_1", "address1", "addressline1", "address_line1", "line1", "line_1", "address_1", "street address"},
	Company:        {"company", "employer", "organization", "current_company", "currentcompany", "current_employer", "company name"},
	Title:          {"title", "position", "job_title", "jobtitle", "current_title", "currenttitle", "job title", "job position", "current position"},
	School:         {"school", "university", "college", "institution", "education", "alma_mater", "university name", "school name"},
	Degree:         {"degree", "diploma", "qualification"},
	Major:          {"major", "field_of_study", "fieldofstudy", "concentration", "specialization", "field", "field of study"},
	GPA:            {"gpa", "grade", "grade_point", "gradepoint", "cgpa", "gpa score"},
	JobSource: {
		"hear_about", "how_did_you_hear", "source", "referral_source", "job_source", "found_us", "hear_about_us",
		"how_heard", "where_did_you", "how_did_you_find", "learn_about", "discover", "referred", "recruiting_source",
		"howdidyouhear", "sourceofhire", "job_board", "jobboard", "how did you hear", "recruiting source",
		"job source", "source of hire",
	},
	Authorized: {
		"authorized", "authorised", "legally_authorized", "work_authorization", "eligible_to_work",
		"legally_eligible", "unlimited and unrestricted", "authorized to work", "work authorization",
	},
	Sponsorship: {
		"sponsor", "visa", "sponsorship", "require_sponsor", "need_visa", "immigration", "require company assistance",
		"require sponsorship", "need sponsorship", "visa sponsorship", "sponsorship required",
	},
	Relocate: {
		"relocate", "relocation", "willing_to_relocate", "open_to_relocation", "willing to move", "open to relocation",
		"willing to relocate", "can you relocate", "able to relocate",
	},
	Over18:    {"18", "age", "years_old", "legal_age", "eighteen", "adult", "over 18", "at least 18", "age 18"},
	Salary:    {"salary", "compensation", "pay", "desired_salary", "expected_salary", "salary_expectation", "salary expectation", "expected salary"},
	StartDate: {"start_date", "available", "availability", "when_can_you_start", "earliest_start", "start date", "available date", "can you start"},
	Gender:    {"gender", "sex"},
	Ethnicity: {"ethnicity", "race", "ethnic", "racial"},
	Veteran: {
		"veteran", "military", "protected veteran", "military service", "served in", "armed forces",
		"discharging veteran", "veteran status", "military background",
	},
	Disability:  {"disability", "disabled", "handicap", "disability status"},
	Citizenship: {"citizenship", "citizen", "nationality"},
	PreviouslyEmployed: {
		"previously_employed", "worked_here_before", "former_employee", "worked_for_this_company",
		"employed_by_this_company", "worked_at_this_company", "previously_worked", "previously employed",
	},
	GovernmentEmployee: {
		"government", "federal_employee", "us_government", "federal_government", "government_employee",
		"employed_by_government", "work_for_government",
	},
	DealerPartnerSupplier: {"dealer", "partner", "supplier", "subsidiaries", "work_for_or_with", "work_with"},
	RestrictiveCovenant: {
		"restrictive_covenant", "non-compete", "noncompete", "non-solicit", "nonsolicit",
		"confidentiality_agreement", "limit_or_restrict", "scope_and_ability", "restrictive",
	},
	HybridSchedule: {
		"hybrid", "work schedule", "in the office", "in office", "on-site", "onsite", "in-person", "in person",
		"days per week", "days in office", "commute to", "working arrangement", "work arrangement",
		"office location", "flexible schedule", "flexible work", "work from home", "remote",
	},
	BusinessTravel: {
		"travel", "business travel", "percent travel", "travel percentage", "willing to travel",
		"frequent travel", "travel required",
	},
	RelocAssist: {
		"relocation assistance", "relocation support", "relocation package", "moving assistance",
		"relocation stipend", "relocation reimbursement", "relocation benefit", "relocation allowance",
		"we offer relocation", "company relocation",
	},
	YearsExp: {
		"years of experience", "years of relevant", "how many years", "years experience", "years of exp",
		"years exp", "experience level",
	},
}

// AutocompleteHints maps standard HTML autofill tokens to the field they always denote.
var AutocompleteHints = map[string]Type{
	"given-name":     FirstName,
	"family-name":    LastName,
	"email":          Email,
	"tel":            Phone,
	"organization":   Company,
	"street-address": StreetAddress,
	"address-line1":  StreetAddress,
	"address-line2":  StreetAddress2,
	"address-level2": City,
	"address-level1": State,
	"postal-code":    ZipCode,
	"country-name":   Country,
	"country":        Country,
}
