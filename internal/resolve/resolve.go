// Package resolve maps a classified field to the answer stored in the applicant profile.
package resolve

import (
	"strings"

	"github.com/jonathan/ats-autofill/internal/fields"
	"github.com/jonathan/ats-autofill/internal/profile"
)

// Defaults applied when the profile leaves a preference unanswered.
const (
	DefaultJobSource  = "LinkedIn"
	DefaultVeteran    = "I am not a protected veteran"
	DefaultDisability = "I do not wish to answer"
	Yes               = "Yes"
	No                = "No"
)

// Resolve returns the value to write for field, or "" when the element must be left
// untouched.
func Resolve(field fields.Type, p *profile.Profile) string {
	if p == nil {
		p = &profile.Profile{}
	}
	b := p.Basics
	prefs := p.ApplicationPreferences
	edu := p.LatestEducation()
	exp := p.LatestExperience()

	var v string
	switch field {
	case fields.FirstName:
		v = b.FirstName
	case fields.LastName:
		v = b.LastName
	case fields.FullName:
		v = strings.TrimSpace(b.FirstName + " " + b.LastName)
	case fields.Email:
		v = b.Email
	case fields.Phone:
		v = b.Phone
	case fields.LinkedIn:
		v = b.LinkedIn
	case fields.GitHub:
		v = b.GitHub
	case fields.Website:
		v = b.Website
	case fields.StreetAddress:
		v = b.StreetAddress
	case fields.StreetAddress2:
		v = b.StreetAddress2
	case fields.City:
		v = b.City
	case fields.State:
		v = b.State
	case fields.ZipCode:
		v = b.ZipCode
	case fields.Country:
		v = b.Country
	case fields.Company:
		if exp != nil {
			v = exp.Company
		}
	case fields.Title:
		if exp != nil {
			v = exp.Title
		}
	case fields.School:
		if edu != nil {
			v = edu.Institution
		}
	case fields.Degree:
		if edu != nil {
			v = edu.Degree
		}
	case fields.Major:
		if edu != nil {
			v = edu.Field
		}
	case fields.GPA:
		if edu != nil {
			v = edu.GPA
		}
	case fields.JobSource:
		v = DefaultJobSource
	case fields.Authorized:
		v = yesNo(prefs.IsAuthorizedToWork, false)
	case fields.Sponsorship:
		v = yesNo(prefs.RequiresSponsorship, false)
	case fields.Relocate:
		v = yesNo(prefs.WillingToRelocate, false)
	case fields.Over18:
		v = yesNo(prefs.IsOver18, true)
	case fields.Salary:
		v = prefs.DesiredSalary
	case fields.StartDate:
		v = prefs.AvailableStartDate
	case fields.Gender:
		v = prefs.Gender
	case fields.Ethnicity:
		v = prefs.Ethnicity
	case fields.Veteran:
		v = orDefault(prefs.VeteranStatus, DefaultVeteran)
	case fields.Disability:
		v = orDefault(prefs.DisabilityStatus, DefaultDisability)
	case fields.Citizenship:
		v = prefs.Citizenship
	case fields.HybridSchedule, fields.BusinessTravel:
		v = Yes
	case fields.YearsExp:
		v = ""
	default:
		if field.IsAlwaysNo() {
			v = No
		}
	}
	return v
}

func yesNo(b *bool, absent bool) string {
	answer := absent
	if b != nil {
		answer = *b
	}
	if answer {
		return Yes
	}
	return No
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
