package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yuriy-komolov/product-categories/internal/ui/i18n"
)

// HandleSetLanguage обрабатывает POST /set-language.
// Сохраняет язык (en или ru) в cookie и перенаправляет обратно на страницу.
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.LangEnglish
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
}

// redirectTarget возвращает путь и query из Referer того же хоста, иначе "/".
// Путь должен начинаться ровно с одного "/": "//host" и "/\host" браузер
// понимает как адрес другого сайта.
func redirectTarget(r *http.Request) string {
	ref, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || (ref.Host != "" && ref.Host != r.Host) || !isLocalPath(ref.Path) {
		return "/"
	}
	return (&url.URL{Path: ref.Path, RawQuery: ref.RawQuery}).String()
}

func isLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
