package overlay

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	msgLoading = "Loading model... %d%%"
	msgFailed  = "Could not load model"
)

// Supported lists the languages with a translation catalog. The bitmap face
// is ASCII only, so translations avoid accented letters.
var Supported = []language.Tag{language.English, language.German, language.Spanish}

func init() {
	set := func(tag language.Tag, key, msg string) {
		if err := message.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, msgLoading, msgLoading)
	set(language.English, msgFailed, msgFailed)

	set(language.German, msgLoading, "Modell wird geladen... %d%%")
	set(language.German, msgFailed, "Modell konnte nicht geladen werden")

	set(language.Spanish, msgLoading, "Cargando modelo... %d%%")
	set(language.Spanish, msgFailed, "No se pudo cargar el modelo")
}

// printerFor resolves a BCP 47 tag to a printer, falling back to English.
func printerFor(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	matched, _, _ := language.NewMatcher(Supported).Match(tag)
	base, _ := matched.Base()
	return message.NewPrinter(language.Make(base.String()))
}
