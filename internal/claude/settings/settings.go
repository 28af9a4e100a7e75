// Package settings provides programmatic access to Claude settings.json files.
package settings

// Schema: https://www.schemastore.org/claude-code-settings.json

// Settings represents the Claude settings.json structure groundwork touches.
type Settings struct {
	Permissions *Permissions `json:"permissions,omitempty"`
	OutputStyle string       `json:"outputStyle,omitempty"` //nolint:tagliatelle // Claude settings.json format
	Model       string       `json:"model,omitempty"`
}

// Permissions defines the Claude permission system configuration.
type Permissions struct {
	Allow                 []string `json:"allow,omitempty"`
	AdditionalDirectories []string `json:"additionalDirectories,omitempty"` //nolint:tagliatelle // Claude settings.json format
}

// AddAdditionalDirectory appends dir to the additional-directories allow-list
// if it is not already present. It reports whether the settings changed.
func (s *Settings) AddAdditionalDirectory(dir string) bool {
	if s.Permissions == nil {
		s.Permissions = &Permissions{}
	}

	for _, existing := range s.Permissions.AdditionalDirectories {
		if existing == dir {
			return false
		}
	}

	s.Permissions.AdditionalDirectories = append(s.Permissions.AdditionalDirectories, dir)
	return true
}

// AdditionalDirectories returns the current allow-list, or nil when unset.
func (s *Settings) AdditionalDirectories() []string {
	if s.Permissions == nil {
		return nil
	}
	return s.Permissions.AdditionalDirectories
}
