package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, s State, cmds ...Command) State {
	t.Helper()
	for _, c := range cmds {
		s, _ = Reduce(s, c)
	}
	return s
}

func fillAll() []Command {
	doc := NewMemoryFile("cert.pdf", []byte("%PDF-1.4"))
	p := validPersonalInfo()
	return []Command{
		MergeSection{Section: PersonalInfoSection, Patch: Patch{
			"firstName": p.FirstName, "lastName": p.LastName, "email": p.Email,
			"phone": p.Phone, "dateOfBirth": p.DateOfBirth, "address": p.Address,
		}},
		MergeSection{Section: EducationSection, Patch: Patch{
			"highSchool": "Kamuzu Academy", "graduationYear": "2023", "qualification": "MSCE",
		}},
		MergeSection{Section: EssaysSection, Patch: Patch{
			"whyCollege": essay(520), "careerGoals": essay(600), "leadership": "Led the debate club.",
		}},
		MergeSection{Section: CredentialsSection, Patch: Patch{
			"certificate": doc, "idDocument": doc, "photo": NewMemoryFile("me.jpg", []byte{0xff, 0xd8}),
		}},
	}
}

func reviewState(t *testing.T) State {
	t.Helper()
	s := apply(t, NewState(), fillAll()...)
	s = apply(t, s, Advance{}, Advance{}, Advance{}, Advance{})
	require.Equal(t, ReviewSection, s.Step)
	return s
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, PersonalInfoSection, s.Step)
	assert.IsType(t, Idle{}, s.Outcome)
	assert.Empty(t, s.Errors)
	assert.False(t, s.Consent)
}

func TestAdvance_BlockedByValidation(t *testing.T) {
	s, eff := Reduce(NewState(), Advance{})
	assert.Nil(t, eff)
	assert.Equal(t, PersonalInfoSection, s.Step)
	assert.NotEmpty(t, s.SectionErrors(PersonalInfoSection))
	assert.Equal(t, "First name is required", s.SectionErrors(PersonalInfoSection)["firstName"])
}

func TestAdvance_PassesAndClearsErrors(t *testing.T) {
	s := apply(t, NewState(), Advance{})
	require.NotEmpty(t, s.SectionErrors(PersonalInfoSection))

	s = apply(t, s, fillAll()[0], Advance{})
	assert.Equal(t, EducationSection, s.Step)
	assert.Empty(t, s.SectionErrors(PersonalInfoSection))
}

func TestAdvance_NoOpOnReview(t *testing.T) {
	s := reviewState(t)
	next, eff := Reduce(s, Advance{})
	assert.Nil(t, eff)
	assert.Equal(t, ReviewSection, next.Step)
}

func TestRetreat(t *testing.T) {
	s, _ := Reduce(NewState(), Retreat{})
	assert.Equal(t, PersonalInfoSection, s.Step)

	s = reviewState(t)
	s = apply(t, s, Retreat{})
	assert.Equal(t, CredentialsSection, s.Step)
}

func TestRetreat_KeepsInvalidLaterData(t *testing.T) {
	s := apply(t, NewState(), fillAll()[0], fillAll()[1], Advance{}, Advance{})
	require.Equal(t, EssaysSection, s.Step)

	s = apply(t, s, UpdateField{Section: EssaysSection, Field: "whyCollege", Value: "too short"}, Advance{})
	require.Equal(t, EssaysSection, s.Step)
	require.NotEmpty(t, s.SectionErrors(EssaysSection))

	s = apply(t, s, Retreat{}, Retreat{})
	assert.Equal(t, PersonalInfoSection, s.Step)
	assert.Equal(t, "too short", s.Form.Essays.WhyCollege)
}

func TestRetreatThenAdvance_RoundTrip(t *testing.T) {
	s := apply(t, NewState(), fillAll()[0], fillAll()[1], Advance{}, Advance{})
	require.Equal(t, EssaysSection, s.Step)

	s = apply(t, s, Retreat{}, Advance{})
	assert.Equal(t, EssaysSection, s.Step)

	s = apply(t, s, Retreat{}, UpdateField{Section: EducationSection, Field: "highSchool", Value: " "}, Advance{})
	assert.Equal(t, EducationSection, s.Step)
}

func TestMergeSection_ShallowMerge(t *testing.T) {
	s := apply(t, NewState(), fillAll()[0])
	before := s.Form.PersonalInfo

	s = apply(t, s, MergeSection{Section: PersonalInfoSection, Patch: Patch{"phone": "0888 000 111"}})
	after := s.Form.PersonalInfo

	assert.Equal(t, "0888 000 111", after.Phone)
	after.Phone = before.Phone
	assert.Equal(t, before, after)
}

func TestMergeSection_AnyStep(t *testing.T) {
	s := apply(t, NewState(), MergeSection{Section: EssaysSection, Patch: Patch{"leadership": "captain"}})
	assert.Equal(t, PersonalInfoSection, s.Step)
	assert.Equal(t, "captain", s.Form.Essays.Leadership)
}

func TestMergeSection_DoesNotMutatePriorState(t *testing.T) {
	doc := NewMemoryFile("a.pdf", nil)
	s1 := apply(t, NewState(), MergeSection{Section: CredentialsSection, Patch: Patch{"additionalDocs": []FileRef{doc}}})
	s2 := apply(t, s1, MergeSection{Section: CredentialsSection, Patch: Patch{"additionalDocs": []FileRef{doc, doc}}})

	assert.Len(t, s1.Form.Credentials.AdditionalDocs, 1)
	assert.Len(t, s2.Form.Credentials.AdditionalDocs, 2)
}

func TestMergeSection_TypedNilFileClears(t *testing.T) {
	var missing *LocalFile
	doc := NewMemoryFile("a.pdf", []byte("%PDF"))

	s := apply(t, NewState(), MergeSection{Section: CredentialsSection, Patch: Patch{
		"certificate": doc, "idDocument": doc, "photo": doc,
	}})
	s = apply(t, s, MergeSection{Section: CredentialsSection, Patch: Patch{
		"certificate":    missing,
		"additionalDocs": []FileRef{doc, missing},
	}})

	assert.Nil(t, s.Form.Credentials.Certificate)
	assert.Len(t, s.Form.Credentials.AdditionalDocs, 1)
	assert.Equal(t, "Certificate upload is required", ValidateCredentials(s.Form.Credentials)["certificate"])
}

func TestUpdateField_ClearsOnlyThatError(t *testing.T) {
	s := apply(t, NewState(), Advance{})
	require.Contains(t, s.SectionErrors(PersonalInfoSection), "firstName")

	s = apply(t, s, UpdateField{Section: PersonalInfoSection, Field: "firstName", Value: "Ada"})
	errs := s.SectionErrors(PersonalInfoSection)
	assert.NotContains(t, errs, "firstName")
	assert.Contains(t, errs, "lastName")
}

func TestSubmit_RequiresConsent(t *testing.T) {
	s := reviewState(t)
	next, eff := Reduce(s, Submit{})
	assert.Nil(t, eff)
	assert.IsType(t, Idle{}, next.Outcome)
	assert.Equal(t, ConsentMessage, next.ConsentError)

	next = apply(t, next, SetConsent{Consent: true})
	assert.Empty(t, next.ConsentError)
}

func TestSubmit_OnlyFromReview(t *testing.T) {
	s := apply(t, NewState(), SetConsent{Consent: true})
	next, eff := Reduce(s, Submit{})
	assert.Nil(t, eff)
	assert.IsType(t, Idle{}, next.Outcome)
}

func TestSubmit_EmitsEffectAndGuardsDuplicates(t *testing.T) {
	s := apply(t, reviewState(t), SetConsent{Consent: true})
	s, eff := Reduce(s, Submit{})
	require.IsType(t, SubmitEffect{}, eff)
	assert.IsType(t, Submitting{}, s.Outcome)

	payload := eff.(SubmitEffect).Payload
	assert.Equal(t, "a@b.com", payload.PersonalInfo.Email)
	assert.True(t, payload.Credentials.CertificateUploaded)
	assert.True(t, payload.Credentials.PhotoUploaded)
	assert.Equal(t, 0, payload.Credentials.AdditionalDocsCount)

	again, eff := Reduce(s, Submit{})
	assert.Nil(t, eff)
	assert.Equal(t, s, again)
}

func TestSubmitting_IgnoresEdits(t *testing.T) {
	s := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{})
	next := apply(t, s, Retreat{}, UpdateField{Section: PersonalInfoSection, Field: "firstName", Value: "X"}, Reset{})
	assert.Equal(t, s, next)
}

func TestSubmissionResults(t *testing.T) {
	submitting := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{})

	ok := apply(t, submitting, SubmissionSucceeded{StudentID: "RAC482913", Email: "a@b.com"})
	assert.Equal(t, Succeeded{StudentID: "RAC482913", Email: "a@b.com"}, ok.Outcome)

	failed := apply(t, submitting, SubmissionFailed{Message: "Failed to send email"})
	assert.Equal(t, Failed{Message: "Failed to send email"}, failed.Outcome)
}

func TestResultsIgnoredWhenNotSubmitting(t *testing.T) {
	s := apply(t, NewState(), SubmissionSucceeded{StudentID: "RAC100000"})
	assert.IsType(t, Idle{}, s.Outcome)
}

func TestRetry_ReturnsToReviewWithoutResubmitting(t *testing.T) {
	failed := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{}, SubmissionFailed{Message: "boom"})

	s, eff := Reduce(failed, Retry{})
	assert.Nil(t, eff)
	assert.IsType(t, Idle{}, s.Outcome)
	assert.Equal(t, ReviewSection, s.Step)
	assert.Equal(t, failed.Form.PersonalInfo, s.Form.PersonalInfo)
	assert.True(t, s.Consent)
}

func TestReset(t *testing.T) {
	done := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{}, SubmissionSucceeded{StudentID: "RAC1", Email: "a@b.com"})
	s := apply(t, done, Reset{})
	assert.Equal(t, NewState(), s)

	failed := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{}, SubmissionFailed{Message: "x"})
	assert.Equal(t, NewState(), apply(t, failed, Reset{}))

	idle := apply(t, NewState(), fillAll()[0], Reset{})
	assert.Equal(t, "Ada", idle.Form.PersonalInfo.FirstName)
}

func TestSucceeded_IgnoresRetry(t *testing.T) {
	done := apply(t, reviewState(t), SetConsent{Consent: true}, Submit{}, SubmissionSucceeded{StudentID: "RAC1"})
	assert.Equal(t, done, apply(t, done, Retry{}, Advance{}))
}
