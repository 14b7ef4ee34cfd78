// Package messages renders the human-readable text of contract violations.
//
// Messages live in an in-code golang.org/x/text catalog keyed by their
// English text, so a locale without a translation falls back to English.
package messages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Kind selects which contract message to render.
type Kind int

const (
	// MissingRequired is rendered when required keys are absent before execution.
	MissingRequired Kind = iota
	// MissingPromised is rendered when promised keys are absent after execution.
	MissingPromised
)

// DefaultLocale is used when no locale is configured.
var DefaultLocale = language.English

const (
	missingRequiredKey = "Missing required keys: %s"
	missingPromisedKey = "Missing promised keys: %s"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		missingRequiredKey: "Missing required keys: %s",
		missingPromisedKey: "Missing promised keys: %s",
	},
	language.French: {
		missingRequiredKey: "Clés requises manquantes : %s",
		missingPromisedKey: "Clés promises manquantes : %s",
	},
	language.Spanish: {
		missingRequiredKey: "Faltan claves requeridas: %s",
		missingPromisedKey: "Faltan claves prometidas: %s",
	},
}

var defaultCatalog = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("messages: " + err.Error())
			}
		}
	}
	return b
}

func (k Kind) key() string {
	if k == MissingPromised {
		return missingPromisedKey
	}
	return missingRequiredKey
}

// String returns the discriminator name of the kind.
func (k Kind) String() string {
	switch k {
	case MissingRequired:
		return "missing_required"
	case MissingPromised:
		return "missing_promised"
	default:
		return "unknown"
	}
}

// Format renders the message for kind in locale tag, listing keys in the
// given order joined by ", ".
func Format(tag language.Tag, kind Kind, keys []string) string {
	p := message.NewPrinter(tag, message.Catalog(defaultCatalog))
	return p.Sprintf(kind.key(), strings.Join(keys, ", "))
}

// Locales returns the locales that have a translation.
func Locales() []language.Tag {
	return defaultCatalog.Languages()
}

// ParseLocale parses a BCP 47 locale, falling back to DefaultLocale on
// empty input.
func ParseLocale(s string) (language.Tag, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLocale, nil
	}
	return language.Parse(s)
}
