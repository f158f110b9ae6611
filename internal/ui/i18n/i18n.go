// Пакет i18n — интернационализация страницы каталога.
// Поддерживаемые языки: English (en), Русский (ru).
// Язык определяется middleware: cookie "lang" → Accept-Language → язык по умолчанию.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// Коды поддерживаемых языков.
const (
	LangEnglish = "en"
	LangRussian = "ru"
)

var (
	// SupportedLanguages — теги поддерживаемых языков, первый — fallback matcher'а.
	SupportedLanguages = []language.Tag{
		language.English,
		language.Russian,
	}

	matcher = language.NewMatcher(SupportedLanguages)
)

// Bundle — хранилище переводов для всех языков.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	fallback string
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle. fallback — язык, в котором ищется
// ключ, отсутствующий в запрошенном языке.
func NewBundle(fallback string, logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		fallback: fallback,
		logger:   logger,
	}
}

// LoadMessages загружает плоский JSON-каталог {"key": "translation"} для языка.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	b.catalogs[lang] = messages
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод по ключу. Ключ, не найденный ни в запрошенном
// языке, ни в fallback, возвращается как есть.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if lang != b.fallback {
		if msg, ok := b.catalogs[b.fallback][key]; ok {
			return msg
		}
	}
	return key
}

// Translatef — Translate с подстановкой аргументов.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	format := b.Translate(lang, key)
	if len(args) == 0 {
		return format
	}
	return formatFunc(format, args...)
}

// Has сообщает, загружен ли каталог языка.
func (b *Bundle) Has(lang string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.catalogs[lang]
	return ok
}

// Форматы загружаются из JSON во время выполнения, go vet их проверить не может.
//
//nolint:govet
var formatFunc = fmt.Sprintf

// localizer — связка Bundle и языка запроса, хранится в контексте.
type localizer struct {
	bundle *Bundle
	lang   string
}

type contextKey struct{}

// WithLang помещает в контекст Bundle и язык запроса.
func WithLang(ctx context.Context, bundle *Bundle, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, localizer{bundle: bundle, lang: lang})
}

// LangFromContext возвращает язык запроса (en, если не задан).
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(contextKey{}).(localizer); ok && l.lang != "" {
		return l.lang
	}
	return LangEnglish
}

// T возвращает перевод ключа на язык запроса.
// Без Bundle в контексте возвращает сам ключ.
func T(ctx context.Context, key string) string {
	l, ok := ctx.Value(contextKey{}).(localizer)
	if !ok || l.bundle == nil {
		return key
	}
	return l.bundle.Translate(l.lang, key)
}

// Tf — T с подстановкой аргументов.
func Tf(ctx context.Context, key string, args ...any) string {
	l, ok := ctx.Value(contextKey{}).(localizer)
	if !ok || l.bundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return l.bundle.Translatef(l.lang, key, args...)
}

// IsSupported сообщает, поддерживается ли язык.
func IsSupported(lang string) bool {
	return lang == LangEnglish || lang == LangRussian
}

// MatchLanguage определяет язык по заголовку Accept-Language.
// ok=false, если заголовок не называет ни одного поддерживаемого языка.
func MatchLanguage(acceptLanguage string) (lang string, ok bool) {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return SupportedLanguages[index].String(), true
}
