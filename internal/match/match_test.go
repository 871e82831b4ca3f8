package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-autofill/internal/fields"
)

func texts(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Text: v, Value: v}
	}
	return out
}

func TestMatch_VeteranDefault(t *testing.T) {
	res := Match(Request{
		Options: texts("I am a protected veteran", "I am not a protected veteran", "I don't wish to answer"),
		Value:   "I am not a protected veteran",
		Field:   fields.Veteran,
	})
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, "veteran", res.Strategy)
}

func TestMatch_VeteranIdentified(t *testing.T) {
	res := Match(Request{
		Options: texts("Select...", "I identify as one or more of the classifications of protected veteran", "I am not a protected veteran"),
		Value:   "I identify as one or more of the classifications of protected veteran",
		Field:   fields.Veteran,
	})
	assert.Equal(t, 1, res.Index)
}

func TestMatch_RaceScenario(t *testing.T) {
	res := Match(Request{
		Options: texts("Asian (Not Hispanic or Latino)", "White (Not Hispanic or Latino)", "Hispanic or Latino", "Two or More Races"),
		Value:   "Asian",
		Field:   fields.Ethnicity,
	})
	assert.Equal(t, 0, res.Index)
	assert.False(t, res.HispanicAnswer)
}

func TestFindBestRaceMatch_CaucasianIsNotAsian(t *testing.T) {
	idx := FindBestRaceMatch([]string{"caucasian", "east asian", "other"}, "asian")
	assert.Equal(t, 1, idx)
}

func TestFindBestRaceMatch_UnknownValue(t *testing.T) {
	assert.Equal(t, -1, FindBestRaceMatch([]string{"asian", "white"}, "martian"))
	assert.Equal(t, -1, FindBestRaceMatch([]string{"select", "--"}, "white"))
}

func TestFindBestRaceMatch_HispanicPolarity(t *testing.T) {
	options := []string{
		"Hispanic or Latino",
		"Hispanic/Latino",
		"Latino",
		"White (Not Hispanic or Latino)",
		"Black or African American (Not Hispanic or Latino)",
		"Asian (Not Hispanic or Latino)",
		"Non-Hispanic White",
		"Two or More Races (Not Hispanic or Latino)",
	}
	pure := map[int]bool{0: true, 1: true, 2: true}

	for _, cat := range fields.EthnicityCategories {
		for _, value := range append([]string{cat.Name}, cat.Aliases...) {
			idx := FindBestRaceMatch(options, value)
			if idx < 0 {
				continue
			}
			if cat.Name == fields.HispanicOrLatino {
				assert.True(t, pure[idx], "hispanic value %q chose %q", value, options[idx])
			} else {
				assert.False(t, pure[idx], "non-hispanic value %q chose %q", value, options[idx])
			}
		}
	}

	assert.Equal(t, 0, FindBestRaceMatch(options, "Hispanic or Latino"))
	assert.Equal(t, 3, FindBestRaceMatch(options, "White"))
}

func TestMatch_StateRoundTrip(t *testing.T) {
	var names, codes []Option
	for code, name := range fields.StateNames {
		names = append(names, Option{Text: strings.ToUpper(name), Value: strings.ToUpper(code)})
		codes = append(codes, Option{Text: strings.ToUpper(code), Value: ""})
	}
	require.Len(t, names, 51)

	for code, name := range fields.StateNames {
		res := Match(Request{Options: names, Value: strings.ToUpper(code), Field: fields.State})
		require.True(t, res.Found(), code)
		assert.Equal(t, strings.ToLower(names[res.Index].Text), name, code)

		res = Match(Request{Options: codes, Value: name, Field: fields.State})
		require.True(t, res.Found(), name)
		assert.Equal(t, code, strings.ToLower(codes[res.Index].Text), name)
	}
}

func TestMatch_StateKansasNotArkansas(t *testing.T) {
	opts := []Option{{Text: "Arkansas (AR)"}, {Text: "Kansas (KS)"}}
	res := Match(Request{Options: opts, Value: "KS", Field: fields.State})
	assert.Equal(t, 1, res.Index)
}

func TestMatch_StatePrefixCode(t *testing.T) {
	opts := []Option{{Text: "CA - Calif."}, {Text: "TX - Tex."}}
	res := Match(Request{Options: opts, Value: "Texas", Field: fields.State})
	assert.Equal(t, 1, res.Index)
}

func TestMatch_JobSourceAlwaysLinkedIn(t *testing.T) {
	res := Match(Request{Options: texts("Indeed", "Company website", "LinkedIn Jobs"), Value: "Indeed", Field: fields.JobSource})
	assert.Equal(t, 2, res.Index)
}

func TestMatch_AlwaysNo(t *testing.T) {
	res := Match(Request{Options: texts("None of the above", "Yes", "No, I have not"), Value: "No", Field: fields.PreviouslyEmployed})
	assert.Equal(t, 2, res.Index)

	res = Match(Request{Options: []Option{{Text: "Y", Value: "true"}, {Text: "N", Value: "false"}}, Value: "No", Field: fields.RestrictiveCovenant})
	assert.Equal(t, 1, res.Index)
}

func TestMatch_YesNo(t *testing.T) {
	opts := texts("Select", "Yes", "No")
	assert.Equal(t, 1, Match(Request{Options: opts, Value: "Yes", Field: fields.Authorized}).Index)
	assert.Equal(t, 2, Match(Request{Options: opts, Value: "No", Field: fields.Sponsorship}).Index)

	valued := []Option{{Text: "I am authorized", Value: "1"}, {Text: "I am not", Value: "0"}}
	assert.Equal(t, 0, Match(Request{Options: valued, Value: "Yes", Field: fields.Authorized}).Index)
	assert.Equal(t, 1, Match(Request{Options: valued, Value: "No", Field: fields.Authorized}).Index)
}

func TestMatch_YesNoIndexValues(t *testing.T) {
	opts := []Option{{Text: "Select...", Value: ""}, {Text: "Yes", Value: "0"}, {Text: "No", Value: "1"}}

	for _, field := range []fields.Type{fields.Sponsorship, fields.GovernmentEmployee, fields.PreviouslyEmployed} {
		res := Match(Request{Options: opts, Value: "No", Field: field})
		assert.Equal(t, 2, res.Index, field.String())
	}
	assert.Equal(t, 1, Match(Request{Options: opts, Value: "Yes", Field: fields.Authorized}).Index)
}

func TestMatch_Disability(t *testing.T) {
	opts := texts(
		"Yes, I have a disability (or previously had a disability)",
		"No, I do not have a disability and have not had one in the past",
		"I do not want to answer",
		"I don't wish to answer",
	)
	assert.Equal(t, 3, Match(Request{Options: opts, Value: "I do not wish to answer", Field: fields.Disability}).Index)
	assert.Equal(t, 0, Match(Request{Options: opts, Value: "Yes, I have a disability", Field: fields.Disability}).Index)
	assert.Equal(t, 1, Match(Request{Options: opts, Value: "No", Field: fields.Disability}).Index)
}

func TestMatch_GenderWordBoundary(t *testing.T) {
	opts := texts("Select", "Female", "Male", "Non-binary", "Decline to self identify")
	assert.Equal(t, 2, Match(Request{Options: opts, Value: "Male", Field: fields.Gender}).Index)
	assert.Equal(t, 1, Match(Request{Options: opts, Value: "female", Field: fields.Gender}).Index)
	assert.Equal(t, 4, Match(Request{Options: opts, Value: "Prefer not to say", Field: fields.Gender}).Index)
	assert.Equal(t, -1, Match(Request{Options: opts, Value: "", Field: fields.Gender}).Index)
}

func TestMatch_HispanicOnlyByOptions(t *testing.T) {
	opts := texts("Hispanic or Latino", "Not Hispanic or Latino", "Decline to self-identify")

	res := Match(Request{Options: opts, Value: "Asian", Field: fields.Ethnicity})
	assert.Equal(t, 1, res.Index)
	assert.True(t, res.HispanicAnswer)

	res = Match(Request{Options: opts, Value: "Latina", Field: fields.Ethnicity})
	assert.Equal(t, 0, res.Index)
	assert.True(t, res.HispanicAnswer)
}

func TestMatch_HispanicOnlyByQuestion(t *testing.T) {
	opts := texts("Yes", "No")
	res := Match(Request{Options: opts, Value: "White", Field: fields.Ethnicity, Question: "Are you Hispanic/Latino?"})
	assert.Equal(t, 1, res.Index)
	assert.True(t, res.HispanicAnswer)

	res = Match(Request{Options: opts, Value: "Hispanic or Latino", Field: fields.Ethnicity, Question: "Are you Hispanic/Latino?"})
	assert.Equal(t, 0, res.Index)
}

func TestMatch_HispanicOnlyDeclineFallback(t *testing.T) {
	opts := texts("Hispanic or Latino", "I prefer not to answer")
	res := Match(Request{Options: opts, Value: "White", Field: fields.Ethnicity})
	assert.Equal(t, 1, res.Index)
}

func TestIsHispanicOnlyQuestion(t *testing.T) {
	assert.True(t, IsHispanicOnlyQuestion([]string{"Yes", "No"}, "Are you Hispanic or Latino?"))
	assert.False(t, IsHispanicOnlyQuestion([]string{"Yes", "No"}, "Are you a veteran?"))
	assert.True(t, IsHispanicOnlyQuestion([]string{"Hispanic", "Not Hispanic"}, ""))
	assert.False(t, IsHispanicOnlyQuestion([]string{"Hispanic", "Asian", "White"}, ""))
	assert.False(t, IsHispanicOnlyQuestion([]string{"Hispanic", "Caucasian"}, ""))
}

func TestMatch_General(t *testing.T) {
	opts := texts("--", "Bachelor's Degree", "Master's Degree", "PhD")
	assert.Equal(t, 1, Match(Request{Options: opts, Value: "Bachelor's", Field: fields.Degree}).Index)
	assert.Equal(t, 3, Match(Request{Options: opts, Value: "phd", Field: fields.Degree}).Index)
	assert.Equal(t, 2, Match(Request{Options: opts, Value: "Master's Degree in Computer Science", Field: fields.Degree}).Index)
	assert.Equal(t, -1, Match(Request{Options: opts, Value: "High school", Field: fields.Degree}).Index)
}

func TestMatch_PlaceholdersNeverChosen(t *testing.T) {
	opts := []Option{{Text: "Select", Value: ""}, {Text: "Please select", Value: ""}, {Text: "Choose one", Value: ""}}
	for _, field := range []fields.Type{fields.Degree, fields.Veteran, fields.Gender, fields.Country} {
		assert.Equal(t, -1, Match(Request{Options: opts, Value: "select", Field: field}).Index, field.String())
	}
}

func TestCategory(t *testing.T) {
	require.NotNil(t, Category("Asian American"))
	assert.Equal(t, "asian", Category("Asian American").Name)
	assert.Equal(t, fields.HispanicOrLatino, Category("Latinx").Name)
	assert.Equal(t, "two or more races", Category("Multiracial").Name)
	assert.Nil(t, Category(""))
	assert.True(t, UserIsHispanic("Latina"))
	assert.False(t, UserIsHispanic("White"))
}

func TestHasWordPrefix(t *testing.T) {
	assert.True(t, hasWordPrefix("no", "no"))
	assert.True(t, hasWordPrefix("no, thanks", "no"))
	assert.False(t, hasWordPrefix("none of the above", "no"))
	assert.True(t, hasWordPrefix("yes - i am", "yes"))
}
