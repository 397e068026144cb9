package tts

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var languageNamer = display.Tags(language.English)

// LanguageName returns the English display name of a BCP-47 tag, such as
// "American English" for "en-US". Unparseable or unnamed tags are returned
// unchanged.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := languageNamer.Name(t); name != "" {
		return name
	}
	return tag
}

// LanguageLabel renders a tag for selection lists, e.g. "en-US (American English)".
func LanguageLabel(tag string) string {
	name := LanguageName(tag)
	if name == tag {
		return tag
	}
	return tag + " (" + name + ")"
}
