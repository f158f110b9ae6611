package i18n

import (
	"embed"
	"fmt"
	"log/slog"
)

//go:embed locales/*.json
var localeFS embed.FS

// Load создаёт Bundle и загружает встроенные каталоги en и ru.
// fallback должен быть одним из них.
func Load(fallback string, logger *slog.Logger) (*Bundle, error) {
	bundle := NewBundle(fallback, logger)

	for _, lang := range []string{LangEnglish, LangRussian} {
		path := fmt.Sprintf("locales/%s.json", lang)
		data, err := localeFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("i18n: не удалось прочитать %s: %w", path, err)
		}
		if err := bundle.LoadMessages(lang, data); err != nil {
			return nil, err
		}
	}

	if !bundle.Has(fallback) {
		return nil, fmt.Errorf("i18n: нет каталога для fallback-языка %q", fallback)
	}

	logger.Info("i18n каталоги загружены", slog.String("fallback", fallback))
	return bundle, nil
}
