package speech

import (
	"strings"

	"golang.org/x/text/language"

	"seeker.klederson.com/internal/platform"
)

// CuratedVoices are names known to sound pleasant, in order of preference.
var CuratedVoices = []string{
	"Samantha",
	"Karen",
	"Moira",
	"Tessa",
	"Google UK English Female",
	"Google US English",
	"Microsoft Aria",
	"Microsoft Jenny",
	"Charlotte",
	"Aria",
}

// MajorProviders are speech vendors whose voices are trusted as a fallback.
var MajorProviders = []string{"google", "microsoft", "apple", "amazon", "elevenlabs"}

// genderHints signal the preferred gender/age in a voice name.
var genderHints = []string{"female", "woman", "girl", "+f", "/f"}

// Preferences steer voice selection.
type Preferences struct {
	Name   string // explicit voice name, tried first when set
	Locale language.Tag
}

// SelectVoice walks the ranked fallback chain:
//  1. the explicitly requested name
//  2. a curated voice matched by name
//  3. a gender-hinting voice, major providers first
//  4. a locale match, major providers first
//  5. any major-provider voice
//  6. the platform default, then the first voice
func SelectVoice(voices []platform.Voice, prefs Preferences) (platform.Voice, bool) {
	if len(voices) == 0 {
		return platform.Voice{}, false
	}

	if prefs.Name != "" {
		if v, ok := findByName(voices, prefs.Name); ok {
			return v, true
		}
	}

	for _, name := range CuratedVoices {
		if v, ok := findByName(voices, name); ok {
			return v, true
		}
	}

	for _, v := range voices {
		if hintsGender(v) && isMajor(v) {
			return v, true
		}
	}

	for _, v := range voices {
		if hintsGender(v) {
			return v, true
		}
	}

	if v, ok := matchLocale(voices, prefs.Locale, true); ok {
		return v, true
	}
	if v, ok := matchLocale(voices, prefs.Locale, false); ok {
		return v, true
	}
	for _, v := range voices {
		if isMajor(v) {
			return v, true
		}
	}

	for _, v := range voices {
		if v.Default {
			return v, true
		}
	}
	return voices[0], true
}

func findByName(voices []platform.Voice, name string) (platform.Voice, bool) {
	want := strings.ToLower(name)
	for _, v := range voices {
		if strings.ToLower(v.Name) == want {
			return v, true
		}
	}
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Name), want) {
			return v, true
		}
	}
	return platform.Voice{}, false
}

func hintsGender(v platform.Voice) bool {
	if strings.EqualFold(v.Gender, "female") || strings.EqualFold(v.Gender, "f") {
		return true
	}
	name := strings.ToLower(v.Name)
	for _, h := range genderHints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

func isMajor(v platform.Voice) bool {
	p := strings.ToLower(v.Provider + " " + v.Name)
	for _, m := range MajorProviders {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}

// matchLocale picks the voice whose language best matches locale with at
// least high confidence, optionally limited to major providers.
func matchLocale(voices []platform.Voice, locale language.Tag, majorOnly bool) (platform.Voice, bool) {
	if locale == language.Und {
		return platform.Voice{}, false
	}

	var cands []platform.Voice
	var tags []language.Tag
	for _, v := range voices {
		if majorOnly && !isMajor(v) {
			continue
		}
		tag, err := language.Parse(v.Language)
		if err != nil {
			continue
		}
		cands = append(cands, v)
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return platform.Voice{}, false
	}

	_, idx, conf := language.NewMatcher(tags).Match(locale)
	if conf < language.High {
		return platform.Voice{}, false
	}
	return cands[idx], true
}
