// Package translate formats user-facing error text for the user's locale.
//
// The locale is taken from REGS_LANG when set, then from the system locales
// reported by the OS, and falls back to en-US.
package translate

import (
	"log"
	"os"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangEnv names the environment variable that overrides the system locale.
const LangEnv = "REGS_LANG"

const fallback = "en-US"

var (
	tag     language.Tag
	printer *message.Printer
)

func init() {
	use(preferred())
}

// preferred lists candidate locales, most preferred first.
func preferred() []string {
	var locales []string
	if env := os.Getenv(LangEnv); env != "" {
		locales = append(locales, env)
	}
	sys, err := locale.GetLocales()
	if err != nil {
		log.Printf("regs: locale: %v", err)
	}
	locales = append(locales, sys...)
	return append(locales, fallback)
}

func use(locales []string) {
	tag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(tag)
}

// Language returns the language error text is formatted for.
func Language() language.Tag {
	return tag
}

// From formats an en-US Sprintf style key for the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
