package prompt

// MockUI is a UI driven by per-method funcs. A nil func accepts the current value.
type MockUI struct {
	SelectFunc  func(title string, options []string, current *string) error
	ConfirmFunc func(title string, value *bool) error
	InputFunc   func(title string, value *string, validate func(string) error) error
	NoteFunc    func(title string, body string) error
}

// Select calls SelectFunc.
func (m *MockUI) Select(title string, options []string, current *string) error {
	if m.SelectFunc == nil {
		return nil
	}
	return m.SelectFunc(title, options, current)
}

// Confirm calls ConfirmFunc.
func (m *MockUI) Confirm(title string, value *bool) error {
	if m.ConfirmFunc == nil {
		return nil
	}
	return m.ConfirmFunc(title, value)
}

// Input calls InputFunc.
func (m *MockUI) Input(title string, value *string, validate func(string) error) error {
	if m.InputFunc == nil {
		return nil
	}
	return m.InputFunc(title, value, validate)
}

// Note calls NoteFunc.
func (m *MockUI) Note(title string, body string) error {
	if m.NoteFunc == nil {
		return nil
	}
	return m.NoteFunc(title, body)
}
