package inkwell

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/inkwell-blog/inkwell/ui"
)

type browser struct {
	t       *testing.T
	a       *App
	cookies map[string]*http.Cookie
}

func (b *browser) do(method, target string, headers map[string]string) *http.Response {
	b.t.Helper()
	rec := doRequest(b.a, method, target, func(r *http.Request) {
		for _, c := range b.cookies {
			r.AddCookie(c)
		}
		for k, v := range headers {
			r.Header.Set(k, v)
		}
	})
	res := rec.Result()
	for _, c := range res.Cookies() {
		b.cookies[c.Name] = c
	}
	return res
}

func (b *browser) csrf() string {
	if c, ok := b.cookies["_csrf"]; ok {
		return c.Value
	}
	return ""
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestThemeToggleRequiresCSRF(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	if rec := doRequest(a, http.MethodPost, "/theme/"); rec.Code != http.StatusForbidden {
		t.Fatalf("POST /theme/ without token = %d, want 403", rec.Code)
	}
}

func TestThemeTogglePersistsInSession(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	b := &browser{t: t, a: a, cookies: map[string]*http.Cookie{}}

	first := readBody(t, b.do(http.MethodGet, "/feedlist/", nil))
	if strings.Contains(first, `class="dark"`) {
		t.Fatal("fresh visitor should get the light page")
	}
	if !strings.Contains(first, ui.IconLight) {
		t.Error("server render should show the neutral icon")
	}
	token := b.csrf()
	if token == "" || !strings.Contains(first, `content="`+token+`"`) {
		t.Fatal("csrf token not issued")
	}

	res := b.do(http.MethodPost, "/theme/", map[string]string{"X-CSRF-Token": token})
	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("toggle status = %d, want 303", res.StatusCode)
	}
	if res.Header.Get("X-Theme") != "dark" {
		t.Errorf("X-Theme = %q, want dark", res.Header.Get("X-Theme"))
	}
	page := readBody(t, b.do(http.MethodGet, "/feedlist/", nil))
	if !strings.Contains(page, `<html lang="en" class="dark">`) {
		t.Error("dark preference not applied to the document")
	}

	res = b.do(http.MethodPost, "/theme/", map[string]string{"X-CSRF-Token": token, "X-Requested-With": "fetch"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("fetch toggle status = %d", res.StatusCode)
	}
	fragment := readBody(t, res)
	if !strings.Contains(fragment, ui.IconLight) || !strings.Contains(fragment, `data-mounted="true"`) {
		t.Errorf("fragment = %s", fragment)
	}
	page = readBody(t, b.do(http.MethodGet, "/feedlist/", nil))
	if strings.Contains(page, `class="dark"`) {
		t.Error("toggling twice should restore the light page")
	}
}

func TestThemeToggleReplacesStaleSessionCookie(t *testing.T) {
	a := newTestApp(t, newFakeSource())
	b := &browser{t: t, a: a, cookies: map[string]*http.Cookie{}}
	b.do(http.MethodGet, "/feedlist/", nil)
	token := b.csrf()
	if token == "" {
		t.Fatal("csrf token not issued")
	}
	b.cookies[sessionName] = &http.Cookie{Name: sessionName, Value: "signed-with-an-old-secret"}

	page := readBody(t, b.do(http.MethodGet, "/feedlist/", nil))
	if strings.Contains(page, `class="dark"`) {
		t.Error("unreadable cookie should render the light page")
	}

	for i, want := range []string{"dark", "light"} {
		res := b.do(http.MethodPost, "/theme/", map[string]string{"X-CSRF-Token": token})
		if res.StatusCode != http.StatusSeeOther {
			t.Fatalf("toggle %d status = %d, want 303", i, res.StatusCode)
		}
		if got := res.Header.Get("X-Theme"); got != want {
			t.Errorf("toggle %d X-Theme = %q, want %q", i, got, want)
		}
	}
	if b.cookies[sessionName].Value == "signed-with-an-old-secret" {
		t.Error("stale session cookie was not replaced")
	}
}
