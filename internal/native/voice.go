package native

import (
	"bufio"
	"strings"
)

// Voice is an installed engine voice.
type Voice struct {
	Name string
	Lang string
}

// SelectVoice picks a voice for lang: an exact language match, then one
// sharing the base language, then any voice. ok is false when voices is
// empty, meaning the engine default should be used.
func SelectVoice(voices []Voice, lang string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	want := normLang(lang)
	if want != "" {
		for _, v := range voices {
			if normLang(v.Lang) == want {
				return v, true
			}
		}
		base := baseLang(want)
		for _, v := range voices {
			if baseLang(normLang(v.Lang)) == base {
				return v, true
			}
		}
	}
	return voices[0], true
}

func normLang(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
}

func baseLang(lang string) string {
	base, _, _ := strings.Cut(normLang(lang), "-")
	return base
}

// parseEspeakVoices reads `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  ar              --/M      Arabic             sem/ar
func parseEspeakVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 4 || f[0] == "Pty" {
			continue
		}
		// espeak selects voices by language code.
		voices = append(voices, Voice{Name: f[1], Lang: f[1]})
	}
	return voices
}

// parseSayVoices reads `say -v ?`:
//
//	Majed               ar_001    # مرحبًا! اسمي ماجد.
func parseSayVoices(out string) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		// Names may contain spaces; the locale is the last field.
		voices = append(voices, Voice{
			Name: strings.Join(f[:len(f)-1], " "),
			Lang: f[len(f)-1],
		})
	}
	return voices
}
