// Package locale loads the embedded message catalogs and resolves UI strings.
package locale

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Locale translates message IDs for one language.
type Locale struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New loads every embedded catalog and selects lang. English is the
// fallback for missing messages and unknown languages.
func New(lang string) (*Locale, error) {
	tag := language.English
	if lang != "" {
		parsed, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", lang, err)
		}
		tag = parsed
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", f.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", f.Name(), err)
		}
	}

	return &Locale{
		tag:       tag,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
	}, nil
}

// MustNew is New for tests and defaults that cannot fail.
func MustNew(lang string) *Locale {
	l, err := New(lang)
	if err != nil {
		panic(err)
	}
	return l
}

// Tag returns the selected language.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// T returns the message for id, or id itself when no catalog has it.
func (l *Locale) T(id string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// Languages lists the embedded catalogs.
func Languages() []string {
	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		name := f.Name()
		out = append(out, name[:len(name)-len(".yaml")])
	}
	return out
}
