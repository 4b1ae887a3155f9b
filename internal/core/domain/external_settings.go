package domain

// SharedSettingsKey is the locale key of settings that apply to every language.
const SharedSettingsKey = "shared"

// Setting is one named external setting value.
type Setting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExternalSettings maps a locale (or "shared") to its settings in
// document order.
type ExternalSettings map[string][]Setting

// ForLanguage returns the language settings followed by the shared ones.
// Language settings come first so they take precedence when merged
// without overwrite.
func (s ExternalSettings) ForLanguage(language string) []Setting {
	var merged []Setting
	if language != SharedSettingsKey {
		merged = append(merged, s[language]...)
	}
	return append(merged, s[SharedSettingsKey]...)
}
