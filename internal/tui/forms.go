package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"waterx/internal/config"
	apperrors "waterx/internal/errors"
	"waterx/internal/logger"
	"waterx/internal/page"
	"waterx/internal/profile"
)

// FormField is one editable line of a form
type FormField struct {
	Key         string
	DisplayName string
	Description string
	Secret      bool // masked while typing, never prefilled
	Value       func() string
	Update      func(string)
}

// formSubmittedMsg carries the result of a form submit
type formSubmittedMsg struct{ err error }

// FormModel edits a list of fields inline and submits them as a whole
type FormModel struct {
	config       *config.Config
	logger       logger.Logger
	parent       tea.Model
	ctx          context.Context
	title        string
	fields       []FormField
	submit       func(ctx context.Context) error
	cursor       int
	editing      bool
	editingField string
	editingValue string
	submitting   bool
	fieldErrors  profile.FieldErrors
	message      string
}

// NewFormModel creates a form editor
func NewFormModel(ctx context.Context, cfg *config.Config, log logger.Logger, parent tea.Model,
	title string, fields []FormField, submit func(ctx context.Context) error) FormModel {
	return FormModel{
		config: cfg,
		logger: log,
		parent: parent,
		ctx:    ctx,
		title:  title,
		fields: fields,
		submit: submit,
	}
}

func newProfileForm(m *AppModel) FormModel {
	p := m.deps.Page
	edit := func(apply func(f *profile.Form, v string)) func(string) {
		return func(v string) {
			f := p.ProfileForm()
			apply(&f, v)
			p.SetProfileForm(f)
		}
	}
	fields := []FormField{
		{
			Key:         profile.FieldName,
			DisplayName: "Full Name",
			Description: "At least 2 characters",
			Value:       func() string { return p.ProfileForm().Name },
			Update:      edit(func(f *profile.Form, v string) { f.Name = v }),
		},
		{
			Key:         profile.FieldEmail,
			DisplayName: "Email",
			Description: "Used to sign in",
			Value:       func() string { return p.ProfileForm().Email },
			Update:      edit(func(f *profile.Form, v string) { f.Email = v }),
		},
		{
			Key:         profile.FieldPassword,
			DisplayName: "New Password (optional)",
			Description: "Leave blank to keep the current password",
			Secret:      true,
			Value:       func() string { return p.ProfileForm().Password },
			Update:      edit(func(f *profile.Form, v string) { f.Password = v }),
		},
	}
	return NewFormModel(m.ctx, m.config, m.logger, m, "My Profile", fields, p.SubmitProfile)
}

func newBrandingForm(m *AppModel) FormModel {
	p := m.deps.Page
	fields := []FormField{
		{
			Key:         "logoUrl",
			DisplayName: "Logo URL",
			Description: "Leave blank to remove the logo",
			Value:       func() string { return p.BrandingForm().LogoURL },
			Update:      func(s string) { p.SetBrandingForm(page.BrandingForm{LogoURL: s}) },
		},
	}
	return NewFormModel(m.ctx, m.config, m.logger, m, "Branding", fields, p.SubmitBranding)
}

func (m FormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tuiDebugLog(m.config, m.logger, "form", msg)
	switch msg := msg.(type) {
	case tea.InterruptMsg:
		return m.parent, nil

	case formSubmittedMsg:
		m.submitting = false
		m.fieldErrors = nil
		if msg.err == nil {
			m.message = successStyle.Render("[OK] Saved")
			return m, nil
		}
		var fe profile.FieldErrors
		if errors.As(msg.err, &fe) {
			m.fieldErrors = fe
		}
		m.message = errorStyle.Render(fmt.Sprintf("[FAIL] %s", apperrors.Message(msg.err, "Save failed")))
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditingInput(msg)
		}
		if m.submitting {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m.parent, nil

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.fields)-1 {
				m.cursor++
			}

		case "enter", " ":
			return m.startEditing()

		case "s":
			return m.submitForm()
		}
	}

	return m, nil
}

// handleEditingInput handles keys while a field is being edited
func (m FormModel) handleEditingInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.parent, nil

	case "esc":
		m.editing = false
		m.editingField = ""
		m.editingValue = ""
		m.message = ""
		return m, nil

	case "enter":
		return m.saveEditedValue()

	case "backspace", "ctrl+h":
		if len(m.editingValue) > 0 {
			m.editingValue = m.editingValue[:len(m.editingValue)-1]
		}

	default:
		if len(msg.String()) == 1 {
			m.editingValue += msg.String()
		}
	}

	return m, nil
}

// startEditing begins editing the field under the cursor
func (m FormModel) startEditing() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.fields) {
		return m, nil
	}
	field := m.fields[m.cursor]
	m.editing = true
	m.editingField = field.Key
	if field.Secret {
		m.editingValue = ""
	} else {
		m.editingValue = field.Value()
	}
	m.message = ""
	return m, nil
}

// saveEditedValue writes the edited value back to the form
func (m FormModel) saveEditedValue() (tea.Model, tea.Cmd) {
	for _, f := range m.fields {
		if f.Key == m.editingField {
			f.Update(m.editingValue)
			delete(m.fieldErrors, f.Key)
			break
		}
	}
	m.editing = false
	m.editingField = ""
	m.editingValue = ""
	return m, nil
}

// submitForm sends the whole form in the background
func (m FormModel) submitForm() (tea.Model, tea.Cmd) {
	m.submitting = true
	m.message = StatusActiveStyle.Render("[WAIT] Saving...")
	submit, ctx := m.submit, m.ctx
	return m, func() tea.Msg {
		return formSubmittedMsg{err: submit(ctx)}
	}
}

func (m FormModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n%s\n\n", titleStyle.Render(PrefixConfig+" "+m.title)))

	for i, field := range m.fields {
		cursor := " "
		value := field.Value()
		if field.Secret {
			value = strings.Repeat("*", len(value))
		}

		if m.cursor == i {
			cursor = ">"
			if m.editing && m.editingField == field.Key {
				edit := m.editingValue
				if field.Secret {
					edit = strings.Repeat("*", len(m.editingValue))
				}
				b.WriteString(selectedStyle.Render(fmt.Sprintf("%s %s: %s", cursor, field.DisplayName, edit)))
				b.WriteString(" [EDIT]")
			} else {
				b.WriteString(selectedStyle.Render(fmt.Sprintf("%s %s: %s", cursor, field.DisplayName, value)))
			}
		} else {
			b.WriteString(menuStyle.Render(fmt.Sprintf("%s %s: %s", cursor, field.DisplayName, value)))
		}
		b.WriteString("\n")

		if msg, ok := m.fieldErrors[field.Key]; ok {
			b.WriteString(errorStyle.Render("    " + msg))
			b.WriteString("\n")
		} else if m.cursor == i && !m.editing {
			b.WriteString(detailStyle.Render("    " + field.Description))
			b.WriteString("\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n  ")
		b.WriteString(m.message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(ShortcutStyle.Render("[KEYS] Enter: Keep | Esc: Discard"))
	} else {
		b.WriteString(ShortcutStyle.Render("[KEYS] Up/Down: Navigate | Enter: Edit | s: Save | Esc: Back"))
	}
	b.WriteString("\n")
	return b.String()
}
