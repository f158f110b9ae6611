package i18n

import "net/http"

// LangCookieName — cookie с выбранным пользователем языком.
const LangCookieName = "lang"

// Middleware определяет язык запроса и помещает его в контекст вместе с Bundle.
// Приоритет: cookie "lang" → Accept-Language → defaultLang.
// Заголовок без поддерживаемых языков не перекрывает defaultLang.
func Middleware(bundle *Bundle, defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := detectLanguage(r, defaultLang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), bundle, lang)))
		})
	}
}

func detectLanguage(r *http.Request, defaultLang string) string {
	if cookie, err := r.Cookie(LangCookieName); err == nil && IsSupported(cookie.Value) {
		return cookie.Value
	}
	if lang, ok := MatchLanguage(r.Header.Get("Accept-Language")); ok {
		return lang
	}
	return defaultLang
}
