// Package profile defines the applicant profile the autofill engine reads from. Profiles
// are created and edited elsewhere; this package only loads and validates them.
package profile

import (
	"github.com/go-playground/validator/v10"
)

// Profile is the root applicant aggregate. Education, Experience and Projects are ordered
// most recent first; the engine never re-sorts them.
type Profile struct {
	ID                     string                 `json:"id,omitempty"`
	Basics                 Basics                 `json:"basics"`
	Education              []Education            `json:"education,omitempty" validate:"dive"`
	Experience             []Experience           `json:"experience,omitempty" validate:"dive"`
	Projects               []Project              `json:"projects,omitempty"`
	Skills                 []SkillGroup           `json:"skills,omitempty"`
	ApplicationPreferences ApplicationPreferences `json:"applicationPreferences"`
	ResumeFiles            []ResumeFile           `json:"resumeFiles,omitempty" validate:"dive"`
}

// Basics holds identity, postal address and social links. Every field may be blank.
type Basics struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	StreetAddress  string `json:"streetAddress"`
	StreetAddress2 string `json:"streetAddress2,omitempty"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	Country        string `json:"country"`
	LinkedIn       string `json:"linkedin,omitempty"`
	GitHub         string `json:"github,omitempty"`
	Website        string `json:"website,omitempty"`
}

// Education is one school entry.
type Education struct {
	ID          string `json:"id,omitempty"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Experience is one employment entry.
type Experience struct {
	ID        string   `json:"id,omitempty"`
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Current   bool     `json:"current,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

// Project is one portfolio entry.
type Project struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// SkillGroup is a named list of skills.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// ApplicationPreferences are the applicant's standing answers to common screening and
// EEO questions. Pointer booleans distinguish "absent" from an explicit false.
type ApplicationPreferences struct {
	JobSource           string `json:"jobSource,omitempty"`
	IsOver18            *bool  `json:"isOver18,omitempty"`
	IsAuthorizedToWork  *bool  `json:"isAuthorizedToWork,omitempty"`
	RequiresSponsorship *bool  `json:"requiresSponsorship,omitempty"`
	WillingToRelocate   *bool  `json:"willingToRelocate,omitempty"`
	Citizenship         string `json:"citizenship,omitempty"`
	DesiredSalary       string `json:"desiredSalary,omitempty"`
	AvailableStartDate  string `json:"availableStartDate,omitempty"`
	Gender              string `json:"gender,omitempty"`
	VeteranStatus       string `json:"veteranStatus,omitempty"`
	DisabilityStatus    string `json:"disabilityStatus,omitempty"`
	Ethnicity           string `json:"ethnicity,omitempty"`
}

// Validate validates the profile using the validator.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// LatestEducation returns the most recent education entry, or nil.
func (p *Profile) LatestEducation() *Education {
	if len(p.Education) == 0 {
		return nil
	}
	return &p.Education[0]
}

// LatestExperience returns the most recent experience entry, or nil.
func (p *Profile) LatestExperience() *Experience {
	if len(p.Experience) == 0 {
		return nil
	}
	return &p.Experience[0]
}

// Bool returns a pointer to b, for building preferences in code.
func Bool(b bool) *bool {
	return &b
}
