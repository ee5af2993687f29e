package inkwell

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inkwell-blog/inkwell/logging"
	"github.com/inkwell-blog/inkwell/ui"
)

const themeKey = "theme"

// sessionPreferences persists the theme in the signed session cookie.
type sessionPreferences struct {
	c echo.Context
}

// session returns the visitor's session. A cookie that no longer decodes, for
// example after the secret rotated, still yields a fresh session; Save then
// replaces the cookie.
func (p sessionPreferences) session() (*sessions.Session, error) {
	sess, err := session.Get(sessionName, p.c)
	if err != nil {
		if sess == nil {
			return nil, err
		}
		logging.FromContext(p.c.Request().Context()).Debug("discarding unreadable session cookie", zap.Error(err))
	}
	return sess, nil
}

func (p sessionPreferences) Load() (ui.Theme, error) {
	sess, err := p.session()
	if err != nil {
		return ui.ThemeUnknown, err
	}
	v, _ := sess.Values[themeKey].(string)
	return ui.ParseTheme(v), nil
}

func (p sessionPreferences) Save(t ui.Theme) error {
	sess, err := p.session()
	if err != nil {
		return err
	}
	sess.Values[themeKey] = t.String()
	return sess.Save(p.c.Request(), p.c.Response())
}

// storedTheme returns the persisted theme, or unknown when there is none.
func storedTheme(c echo.Context) ui.Theme {
	t, err := sessionPreferences{c: c}.Load()
	if err != nil {
		return ui.ThemeUnknown
	}
	return t
}

// handleTheme flips the persisted theme. Script-driven requests get the mounted
// switch fragment back; plain form posts are redirected to where they came from.
func (a *App) handleTheme(c echo.Context) error {
	sw := ui.NewAppearanceSwitch(sessionPreferences{c: c})
	next, err := sw.Toggle()
	if err != nil {
		return err
	}
	c.Response().Header().Set("X-Theme", next.String())
	if c.Request().Header.Get("HX-Request") == "true" || c.Request().Header.Get("X-Requested-With") == "fetch" {
		return Render(c, ui.ThemeSwitch(sw, ui.ThemeSwitchProps{
			Action:    "/theme/",
			CSRFField: "_csrf",
			CSRFToken: CsrfToken(c),
		}))
	}
	return c.Redirect(http.StatusSeeOther, backTarget(c))
}
