// Package tui is the terminal front end of the application wizard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"admissions/internal/wizard"
)

type submitResultMsg struct {
	outcome wizard.Outcome
	err     error
}

// Model drives one wizard.Session. Inputs mirror the session's form; every
// edit is pushed into the session immediately.
type Model struct {
	ctx      context.Context
	session  *wizard.Session
	styles   Styles
	inputs   map[string]textinput.Model
	essays   map[string]textarea.Model
	fileErrs map[string]string
	spinner  spinner.Model
	focus    int
	pending  bool
	notice   string
	width    int
	now      func() time.Time
}

func New(ctx context.Context, session *wizard.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		session: session,
		styles:  DefaultStyles(),
		spinner: sp,
		width:   80,
		now:     time.Now,
	}
	m.spinner.Style = m.styles.Spinner
	m.resetInputs()
	return m
}

func (m *Model) resetInputs() {
	m.inputs = make(map[string]textinput.Model)
	m.essays = make(map[string]textarea.Model)
	m.fileErrs = make(map[string]string)
	for _, fields := range sectionFields {
		for _, f := range fields {
			if f.kind == essayField {
				ta := textarea.New()
				ta.Placeholder = f.label
				ta.ShowLineNumbers = false
				ta.CharLimit = 0
				ta.SetWidth(m.width - 4)
				ta.SetHeight(5)
				m.essays[f.name] = ta
				continue
			}
			if f.kind == choiceField {
				continue
			}
			ti := textinput.New()
			ti.Placeholder = f.hint
			ti.Prompt = "│ "
			ti.Width = m.width - 6
			m.inputs[f.name] = ti
		}
	}
	m.focus = 0
	m.applyFocus()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) fields() []field {
	return sectionFields[m.session.State().Step]
}

// applyFocus focuses the input at m.focus on the current step and blurs the
// rest.
func (m *Model) applyFocus() {
	current := ""
	if fs := m.fields(); m.focus < len(fs) {
		current = fs[m.focus].name
	}
	for name, ti := range m.inputs {
		if name == current {
			ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[name] = ti
	}
	for name, ta := range m.essays {
		if name == current {
			ta.Focus()
		} else {
			ta.Blur()
		}
		m.essays[name] = ta
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for name, ta := range m.essays {
			ta.SetWidth(msg.Width - 4)
			m.essays[name] = ta
		}
		return m, nil

	case submitResultMsg:
		m.pending = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) submitting() bool {
	if m.pending {
		return true
	}
	_, ok := m.session.State().Outcome.(wizard.Submitting)
	return ok
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting() {
		return m, nil
	}

	switch m.session.State().Outcome.(type) {
	case wizard.Succeeded:
		switch msg.String() {
		case "n":
			m.session.Reset()
			m.resetInputs()
			return m, nil
		case "q", "enter":
			return m, tea.Quit
		}
		return m, nil

	case wizard.Failed:
		switch msg.String() {
		case "r":
			m.session.Retry()
			m.notice = ""
		case "n":
			m.session.Reset()
			m.notice = ""
			m.resetInputs()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	step := m.session.State().Step
	switch msg.String() {
	case "ctrl+n":
		return m.advance()
	case "ctrl+b":
		m.session.Retreat()
		m.focus = 0
		m.applyFocus()
		return m, nil
	case "tab":
		m.moveFocus(1)
		return m, nil
	case "shift+tab":
		m.moveFocus(-1)
		return m, nil
	}

	if step == wizard.ReviewSection {
		switch msg.String() {
		case " ", "c":
			m.session.SetConsent(!m.session.State().Consent)
		case "enter":
			return m.startSubmit()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) moveFocus(delta int) {
	n := len(m.fields())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.applyFocus()
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	step := m.session.State().Step
	if step == wizard.CredentialsSection && !m.commitFiles() {
		return m, nil
	}
	errs := m.session.Advance()
	if len(errs) > 0 {
		for i, f := range sectionFields[step] {
			if _, bad := errs[f.name]; bad {
				m.focus = i
				break
			}
		}
	} else {
		m.focus = 0
	}
	m.applyFocus()
	return m, nil
}

// commitFiles resolves the credential paths into file handles. It reports
// false when a non-empty path cannot be opened.
func (m *Model) commitFiles() bool {
	m.fileErrs = make(map[string]string)
	patch := wizard.Patch{}
	for _, f := range sectionFields[wizard.CredentialsSection] {
		value := strings.TrimSpace(m.inputs[f.name].Value())
		switch f.kind {
		case fileField:
			if value == "" {
				patch[f.name] = nil
				continue
			}
			ref, err := wizard.NewLocalFile(value)
			if err != nil {
				m.fileErrs[f.name] = err.Error()
				continue
			}
			patch[f.name] = wizard.FileRef(ref)
		case filesField:
			var docs []wizard.FileRef
			for _, p := range strings.Split(value, ",") {
				if p = strings.TrimSpace(p); p == "" {
					continue
				}
				ref, err := wizard.NewLocalFile(p)
				if err != nil {
					m.fileErrs[f.name] = err.Error()
					break
				}
				docs = append(docs, ref)
			}
			patch[f.name] = docs
		}
	}
	if _, err := m.session.Dispatch(wizard.MergeSection{Section: wizard.CredentialsSection, Patch: patch}); err != nil {
		m.notice = err.Error()
		return false
	}
	return len(m.fileErrs) == 0
}

func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fs := m.fields()
	if m.focus >= len(fs) {
		return m, nil
	}
	f := fs[m.focus]
	step := m.session.State().Step

	var cmd tea.Cmd
	switch f.kind {
	case choiceField:
		m.cycleChoice(step, f.name, msg)
	case essayField:
		ta := m.essays[f.name]
		ta, cmd = ta.Update(msg)
		m.essays[f.name] = ta
		_ = m.session.UpdateField(step, f.name, ta.Value())
	case textField:
		ti := m.inputs[f.name]
		ti, cmd = ti.Update(msg)
		m.inputs[f.name] = ti
		_ = m.session.UpdateField(step, f.name, ti.Value())
	default:
		ti := m.inputs[f.name]
		ti, cmd = ti.Update(msg)
		m.inputs[f.name] = ti
		delete(m.fileErrs, f.name)
	}
	return m, cmd
}

// cycleChoice moves a choiceField through its values with left and right.
// Any other key leaves the value untouched.
func (m Model) cycleChoice(step wizard.SectionID, name string, msg tea.KeyMsg) {
	var delta int
	switch msg.String() {
	case "right", "l", "down", "j":
		delta = 1
	case "left", "h", "up", "k":
		delta = -1
	default:
		return
	}
	values, _ := choices(name, m.now())
	if len(values) == 0 {
		return
	}
	current := educationValue(m.session.State(), name)
	i := -1
	for j, v := range values {
		if v == current {
			i = j
			break
		}
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(values) - 1
	default:
		i = (i + delta + len(values)) % len(values)
	}
	_ = m.session.UpdateField(step, name, values[i])
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if !m.session.State().Consent {
		// Rejected locally; the reducer records the consent error.
		_, _ = m.session.Submit(m.ctx)
		return m, nil
	}

	m.pending = true
	m.notice = ""
	session, ctx := m.session, m.ctx
	submit := func() tea.Msg {
		outcome, err := session.Submit(ctx)
		return submitResultMsg{outcome: outcome, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, submit)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("ROYAL AFRICAN COLLEGE · Application for Admission"))
	b.WriteString("\n")

	switch o := m.session.State().Outcome.(type) {
	case wizard.Succeeded:
		b.WriteString(m.successView(o))
		return b.String()
	case wizard.Failed:
		b.WriteString(m.failureView(o))
		return b.String()
	}
	if m.submitting() {
		b.WriteString(fmt.Sprintf("\n%s Submitting your application...\n", m.spinner.View()))
		return b.String()
	}

	st := m.session.State()
	b.WriteString(m.progress(st.Step))
	b.WriteString("\n\n")
	if st.Step == wizard.ReviewSection {
		b.WriteString(m.reviewView(st))
	} else {
		b.WriteString(m.formView(st))
	}
	if m.notice != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.styles.Hint.Render(m.help(st.Step)))
	return b.String()
}

func (m Model) progress(step wizard.SectionID) string {
	var parts []string
	for id := wizard.PersonalInfoSection; id <= wizard.ReviewSection; id++ {
		label := id.Title()
		switch {
		case id == step:
			parts = append(parts, m.styles.Step.Render(label))
		case id < step:
			parts = append(parts, m.styles.Progress.Render("✓ "+label))
		default:
			parts = append(parts, m.styles.Label.Render(label))
		}
	}
	return fmt.Sprintf("Step %d of %d  ", int(step)+1, wizard.StepCount) + strings.Join(parts, " › ")
}

func (m Model) formView(st wizard.State) string {
	errs := st.SectionErrors(st.Step)
	counts := m.session.WordCounts()

	var b strings.Builder
	for i, f := range sectionFields[st.Step] {
		label := m.styles.Label.Render(f.label)
		if i == m.focus {
			label = m.styles.Focused.Render("› " + f.label)
		}
		b.WriteString(label + "\n")

		if f.kind == essayField {
			ta := m.essays[f.name]
			b.WriteString(ta.View() + "\n")
			words := fmt.Sprintf("Words: %d", counts[f.name])
			if f.name != "leadership" {
				words += fmt.Sprintf(" / %d minimum", wizard.MinEssayWords)
			}
			b.WriteString(m.styles.Hint.Render(words) + "\n")
		} else if f.kind == choiceField {
			b.WriteString(m.choiceView(st, f, i == m.focus) + "\n")
		} else {
			ti := m.inputs[f.name]
			b.WriteString(ti.View() + "\n")
		}

		if msg, ok := errs[f.name]; ok {
			b.WriteString(m.styles.Error.Render(msg) + "\n")
		}
		if msg, ok := m.fileErrs[f.name]; ok {
			b.WriteString(m.styles.Error.Render(msg) + "\n")
		}
	}
	return b.String()
}

func (m Model) choiceView(st wizard.State, f field, focused bool) string {
	values, labels := choices(f.name, m.now())
	current := educationValue(st, f.name)
	shown := m.styles.Hint.Render("select with ← →")
	for i, v := range values {
		if v == current {
			shown = labels[i]
			break
		}
	}
	if focused {
		return "│ ‹ " + shown + " ›"
	}
	return "│ " + shown
}

func (m Model) reviewView(st wizard.State) string {
	f := st.Form
	p := f.PersonalInfo
	creds := f.Credentials.Summary()

	rows := []string{
		m.styles.Step.Render("Personal information"),
		fmt.Sprintf("  %s · %s · %s", p.FullName(), p.Email, p.Phone),
		fmt.Sprintf("  Born %s · %s", p.DateOfBirth, p.Address),
		m.styles.Step.Render("Education"),
		fmt.Sprintf("  %s (%s) · %s", f.Education.HighSchool, f.Education.GraduationYear, wizard.QualificationLabel(f.Education.Qualification)),
		m.styles.Step.Render("Essays"),
	}
	for _, e := range sectionFields[wizard.EssaysSection] {
		rows = append(rows, fmt.Sprintf("  %s: %d words", e.label, m.session.WordCounts()[e.name]))
	}
	rows = append(rows,
		m.styles.Step.Render("Credentials"),
		fmt.Sprintf("  certificate %s · ID %s · photo %s · %d additional",
			tick(creds.CertificateUploaded), tick(creds.IDDocumentUploaded), tick(creds.PhotoUploaded), creds.AdditionalDocsCount),
	)

	box := "[ ]"
	if st.Consent {
		box = "[x]"
	}
	rows = append(rows, "", fmt.Sprintf("%s I declare that the information provided is true and complete.", box))
	if st.ConsentError != "" {
		rows = append(rows, m.styles.Error.Render(st.ConsentError))
	}
	return m.styles.Box.Render(strings.Join(rows, "\n")) + "\n"
}

func tick(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func (m Model) successView(o wizard.Succeeded) string {
	body := strings.Join([]string{
		m.styles.Success.Render("Application submitted!"),
		"",
		fmt.Sprintf("Student ID: %s", o.StudentID),
		fmt.Sprintf("Your admission letter has been sent to %s.", o.Email),
		"Use your Student ID as the payment reference.",
	}, "\n")
	return m.styles.Box.Render(body) + "\n\n" + m.styles.Hint.Render("n new application · q quit")
}

func (m Model) failureView(o wizard.Failed) string {
	body := strings.Join([]string{
		m.styles.Warning.Render("Submission failed"),
		"",
		m.styles.Error.Render(o.Message),
	}, "\n")
	return m.styles.Box.Render(body) + "\n\n" + m.styles.Hint.Render("r retry · n start over · q quit")
}

func (m Model) help(step wizard.SectionID) string {
	switch step {
	case wizard.PersonalInfoSection:
		return "tab next field · ctrl+n continue · ctrl+c quit"
	case wizard.ReviewSection:
		return "space toggle consent · enter submit · ctrl+b back · ctrl+c quit"
	case wizard.EducationSection:
		return "tab next field · ← → choose · ctrl+n continue · ctrl+b back · ctrl+c quit"
	default:
		return "tab next field · ctrl+n continue · ctrl+b back · ctrl+c quit"
	}
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, session *wizard.Session) error {
	_, err := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
