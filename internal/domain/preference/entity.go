package preference

// Theme enum
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Keys used in the key-value store.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// Toggle flips between the two themes. Unknown values toggle to light,
// because they are treated as the dark default.
func (t Theme) Toggle() Theme {
	if t.Normalize() == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Normalize maps anything unknown to the dark default.
func (t Theme) Normalize() Theme {
	if t == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Preference is what a visitor has chosen for presentation.
type Preference struct {
	Theme    Theme  `json:"theme"`
	Language string `json:"language"`
}
