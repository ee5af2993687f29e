package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// Theme is the colour scheme preference. ThemeUnknown means the preference has not
// been read yet.
type Theme int

const (
	ThemeUnknown Theme = iota
	ThemeLight
	ThemeDark
)

// ParseTheme maps "light" and "dark" to their themes; anything else is unknown.
func ParseTheme(s string) Theme {
	switch s {
	case "light":
		return ThemeLight
	case "dark":
		return ThemeDark
	}
	return ThemeUnknown
}

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	}
	return ""
}

// Flip returns the opposite theme. Unknown counts as light.
func (t Theme) Flip() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

const (
	IconLight = "i-carbon-sun"
	IconDark  = "i-carbon-moon"
)

// PreferenceStore persists the theme across visits.
type PreferenceStore interface {
	Load() (Theme, error)
	Save(Theme) error
}

// AppearanceSwitch holds the theme toggle's state. Until Mount is called the switch
// shows the neutral light icon so that server and client render the same markup.
type AppearanceSwitch struct {
	store   PreferenceStore
	state   Theme
	mounted bool
}

func NewAppearanceSwitch(store PreferenceStore) *AppearanceSwitch {
	return &AppearanceSwitch{store: store}
}

// Mount reads the persisted preference. An unset preference resolves to light.
func (s *AppearanceSwitch) Mount() error {
	t, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("ui: load theme: %w", err)
	}
	if t == ThemeUnknown {
		t = ThemeLight
	}
	s.state = t
	s.mounted = true
	return nil
}

// Toggle flips between light and dark and persists the result.
func (s *AppearanceSwitch) Toggle() (Theme, error) {
	if !s.mounted {
		if err := s.Mount(); err != nil {
			return ThemeUnknown, err
		}
	}
	next := s.state.Flip()
	if err := s.store.Save(next); err != nil {
		return s.state, fmt.Errorf("ui: save theme: %w", err)
	}
	s.state = next
	return next, nil
}

func (s *AppearanceSwitch) State() Theme  { return s.state }
func (s *AppearanceSwitch) Mounted() bool { return s.mounted }

// Icon returns the glyph class for the current state.
func (s *AppearanceSwitch) Icon() string {
	if s.mounted && s.state == ThemeDark {
		return IconDark
	}
	return IconLight
}

// MemoryPreferences is an in-process PreferenceStore.
type MemoryPreferences struct {
	mu    sync.Mutex
	theme Theme
}

func (m *MemoryPreferences) Load() (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, nil
}

func (m *MemoryPreferences) Save(t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = t
	return nil
}

// ThemeSwitchProps configures the rendered toggle. The button posts to Action so the
// toggle works without scripts; theme.js intercepts it when available.
type ThemeSwitchProps struct {
	Action    string
	CSRFField string
	CSRFToken string
}

// ThemeSwitch renders the toggle button for s.
func ThemeSwitch(s *AppearanceSwitch, p ThemeSwitchProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<form method="post" action="%s" class="inline-flex" data-theme-switch data-mounted="%t" data-theme="%s">`,
			templ.EscapeString(p.Action), s.Mounted(), s.State()); err != nil {
			return err
		}
		if p.CSRFToken != "" {
			if _, err := fmt.Fprintf(w, `<input type="hidden" name="%s" value="%s">`,
				templ.EscapeString(p.CSRFField), templ.EscapeString(p.CSRFToken)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<button type="submit" class="inline-flex h-8 w-8 items-center justify-center rounded-md hover:bg-neutral-100 dark:hover:bg-neutral-800">`); err != nil {
			return err
		}
		if err := Icon(s.Icon() + " h-5 w-5").Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<span class="sr-only">Toggle theme</span></button></form>`)
		return err
	})
}
