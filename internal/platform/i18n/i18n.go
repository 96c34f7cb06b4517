// Package i18n loads the embedded locale catalogs and resolves request
// locales to message printers.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every supported locale.
type Bundle struct {
	builder   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	keys      map[string]map[string]struct{}
}

// LoadEmbedded loads catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	b := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(base)),
		keys:    map[string]map[string]struct{}{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.keys[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	locales := make([]string, 0, len(b.keys))
	for locale := range b.keys {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	// The matcher prefers its first entry when nothing matches.
	b.supported = []language.Tag{base}
	for _, locale := range locales {
		if locale != BaseLocale {
			b.supported = append(b.supported, language.MustParse(locale))
		}
	}
	b.matcher = language.NewMatcher(b.supported)
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if dir := path.Base(path.Dir(p)); dir != locale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, dir)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}
	seen, ok := b.keys[locale]
	if !ok {
		seen = map[string]struct{}{}
		b.keys[locale] = seen
	}
	for key, msg := range file.Messages {
		if _, dup := seen[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q", p, key)
		}
		seen[key] = struct{}{}
		if err := b.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: set %q: %w", p, key, err)
		}
	}
	return nil
}

// HasLocale reports whether a catalog was loaded for locale.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.keys[strings.TrimSpace(locale)]
	return ok
}

// Resolve picks the best supported tag for an Accept-Language header value.
func (b *Bundle) Resolve(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.supported[0]
	}
	_, index, _ := b.matcher.Match(tags...)
	return b.supported[index]
}

// Printer returns a printer for tag backed by this bundle.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.builder))
}

// Missing lists keys present in the base locale but absent from locale.
func (b *Bundle) Missing(locale string) []string {
	var out []string
	have := b.keys[locale]
	for key := range b.keys[BaseLocale] {
		if _, ok := have[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
