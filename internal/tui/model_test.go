package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "admissions/internal/common/errors"
	"admissions/internal/models"
	"admissions/internal/wizard"
)

type fakeSubmitter struct {
	SubmitFunc func(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error)
}

func (f *fakeSubmitter) Submit(ctx context.Context, payload models.SubmissionPayload) (*models.SubmitResponse, error) {
	return f.SubmitFunc(ctx, payload)
}

func accepting() *fakeSubmitter {
	return &fakeSubmitter{SubmitFunc: func(_ context.Context, p models.SubmissionPayload) (*models.SubmitResponse, error) {
		return &models.SubmitResponse{Success: true, StudentID: "RAC482913", Email: p.PersonalInfo.Email}, nil
	}}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runSubmit executes the batched submit command and feeds its result back.
func runSubmit(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(submitResultMsg); ok {
			m, _ = press(t, m, res)
			return m
		}
	}
	t.Fatal("no submit result in batch")
	return m
}

func reviewSession(t *testing.T, sub wizard.Submitter) *wizard.Session {
	t.Helper()
	s := wizard.NewSession(sub, nil)
	doc := wizard.NewMemoryFile("certificate.pdf", []byte("%PDF-1.4"))
	patches := []wizard.MergeSection{
		{Section: wizard.PersonalInfoSection, Patch: wizard.Patch{
			"firstName": "Ada", "lastName": "Phiri", "email": "a@b.com",
			"phone": "+265 999 123 456", "dateOfBirth": "2004-05-17", "address": "Area 47, Lilongwe",
		}},
		{Section: wizard.EducationSection, Patch: wizard.Patch{
			"highSchool": "Kamuzu Academy", "graduationYear": "2023", "qualification": "MSCE",
		}},
		{Section: wizard.EssaysSection, Patch: wizard.Patch{
			"whyCollege": strings.Repeat("word ", 500), "careerGoals": strings.Repeat("word ", 500),
		}},
		{Section: wizard.CredentialsSection, Patch: wizard.Patch{
			"certificate": doc, "idDocument": doc, "photo": doc,
		}},
	}
	for _, p := range patches {
		_, err := s.Dispatch(p)
		require.NoError(t, err)
		require.Empty(t, s.Advance())
	}
	require.Equal(t, wizard.ReviewSection, s.State().Step)
	return s
}

func TestTypingUpdatesSession(t *testing.T) {
	s := wizard.NewSession(accepting(), nil)
	m := New(context.Background(), s)

	m, _ = press(t, m, runes("Ada"))
	assert.Equal(t, "Ada", s.State().Form.PersonalInfo.FirstName)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("Phiri"))
	assert.Equal(t, "Phiri", s.State().Form.PersonalInfo.LastName)
	assert.Equal(t, 1, m.focus)
}

func TestFocusWraps(t *testing.T) {
	m := New(context.Background(), wizard.NewSession(accepting(), nil))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(sectionFields[wizard.PersonalInfoSection])-1, m.focus)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)
}

func TestAdvanceShowsInlineErrors(t *testing.T) {
	s := wizard.NewSession(accepting(), nil)
	m := New(context.Background(), s)

	m, _ = press(t, m, runes("Ada"), tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.Equal(t, wizard.PersonalInfoSection, s.State().Step)
	assert.Equal(t, 1, m.focus, "focus jumps to the first invalid field")
	view := m.View()
	assert.Contains(t, view, "Step 1 of 5")
	assert.Contains(t, view, s.State().SectionErrors(wizard.PersonalInfoSection)["lastName"])
}

func TestEssayWordCount(t *testing.T) {
	s := wizard.NewSession(accepting(), nil)
	patches := []wizard.MergeSection{
		{Section: wizard.PersonalInfoSection, Patch: wizard.Patch{
			"firstName": "Ada", "lastName": "Phiri", "email": "a@b.com",
			"phone": "+265 999 123 456", "dateOfBirth": "2004-05-17", "address": "Area 47",
		}},
		{Section: wizard.EducationSection, Patch: wizard.Patch{
			"highSchool": "Kamuzu Academy", "graduationYear": "2023", "qualification": "MSCE",
		}},
	}
	for _, p := range patches {
		_, err := s.Dispatch(p)
		require.NoError(t, err)
		require.Empty(t, s.Advance())
	}
	m := New(context.Background(), s)

	m, _ = press(t, m, runes("one two three"))

	assert.Equal(t, 3, s.WordCounts()["whyCollege"])
	assert.Contains(t, m.View(), "Words: 3 / 500 minimum")
}

func TestEducationChoices(t *testing.T) {
	s := wizard.NewSession(accepting(), nil)
	_, err := s.Dispatch(wizard.MergeSection{Section: wizard.PersonalInfoSection, Patch: wizard.Patch{
		"firstName": "Ada", "lastName": "Phiri", "email": "a@b.com",
		"phone": "+265 999 123 456", "dateOfBirth": "2004-05-17", "address": "Area 47",
	}})
	require.NoError(t, err)
	require.Empty(t, s.Advance())

	m := New(context.Background(), s)
	m.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	tab := tea.KeyMsg{Type: tea.KeyTab}
	right := tea.KeyMsg{Type: tea.KeyRight}

	m, _ = press(t, m, runes("Kamuzu Academy"), tab, runes("1850"), tab, runes("banana"), tea.KeyMsg{Type: tea.KeyCtrlN})
	ed := s.State().Form.Education
	assert.Empty(t, ed.GraduationYear)
	assert.Empty(t, ed.Qualification)
	assert.Equal(t, wizard.EducationSection, s.State().Step)
	assert.Equal(t, 1, m.focus)

	m, _ = press(t, m, right)
	assert.Equal(t, "2026", s.State().Form.Education.GraduationYear)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "1980", s.State().Form.Education.GraduationYear)

	m, _ = press(t, m, tab, right, right)
	assert.Equal(t, "high_school", s.State().Form.Education.Qualification)
	assert.Contains(t, m.View(), "High School Diploma")

	_, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, wizard.EssaysSection, s.State().Step)
}

func TestCredentialPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "certificate.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	s := reviewSession(t, accepting())
	s.Retreat()
	m := New(context.Background(), s)

	t.Run("missing file", func(t *testing.T) {
		m, _ := press(t, m, runes(filepath.Join(dir, "nope.pdf")), tea.KeyMsg{Type: tea.KeyCtrlN})
		assert.Equal(t, wizard.CredentialsSection, s.State().Step)
		assert.Contains(t, m.fileErrs, "certificate")
	})

	t.Run("existing files", func(t *testing.T) {
		m := New(context.Background(), s)
		for i := 0; i < 3; i++ {
			m, _ = press(t, m, runes(path), tea.KeyMsg{Type: tea.KeyTab})
		}
		m, _ = press(t, m, runes(path+", "+path), tea.KeyMsg{Type: tea.KeyCtrlN})

		require.Empty(t, m.fileErrs)
		assert.Equal(t, wizard.ReviewSection, s.State().Step)
		summary := s.State().Form.Credentials.Summary()
		assert.True(t, summary.CertificateUploaded)
		assert.Equal(t, 2, summary.AdditionalDocsCount)
	})
}

func TestSubmitRequiresConsent(t *testing.T) {
	s := reviewSession(t, &fakeSubmitter{SubmitFunc: func(context.Context, models.SubmissionPayload) (*models.SubmitResponse, error) {
		t.Fatal("submitted without consent")
		return nil, nil
	}})
	m := New(context.Background(), s)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, wizard.ConsentMessage, s.State().ConsentError)
	assert.Contains(t, m.View(), wizard.ConsentMessage)
}

func TestSubmitSuccess(t *testing.T) {
	s := reviewSession(t, accepting())
	m := New(context.Background(), s)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, s.State().Consent)
	assert.Contains(t, m.View(), "[x]")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.pending)
	assert.Contains(t, m.View(), "Submitting")

	m = runSubmit(t, m, cmd)
	assert.False(t, m.pending)
	assert.Equal(t, wizard.Succeeded{StudentID: "RAC482913", Email: "a@b.com"}, s.State().Outcome)
	view := m.View()
	assert.Contains(t, view, "RAC482913")
	assert.Contains(t, view, "a@b.com")

	m, _ = press(t, m, runes("n"))
	assert.Equal(t, wizard.NewState(), s.State())
	assert.Equal(t, "", m.inputs["firstName"].Value())
}

func TestSubmitFailureRetry(t *testing.T) {
	s := reviewSession(t, &fakeSubmitter{SubmitFunc: func(context.Context, models.SubmissionPayload) (*models.SubmitResponse, error) {
		return nil, errors.New(apperrors.MsgEmailFailed)
	}})
	m := New(context.Background(), s)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	m = runSubmit(t, m, cmd)
	assert.Contains(t, m.View(), "failed to send email")

	m, _ = press(t, m, runes("r"))
	st := s.State()
	assert.Equal(t, wizard.ReviewSection, st.Step)
	assert.Equal(t, wizard.Idle{}, st.Outcome)
	assert.True(t, st.Consent)
	assert.Contains(t, m.View(), "Step 5 of 5")
}

func TestKeysIgnoredWhileSubmitting(t *testing.T) {
	s := reviewSession(t, accepting())
	m := New(context.Background(), s)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Nil(t, cmd)
	assert.Equal(t, wizard.ReviewSection, s.State().Step)

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
