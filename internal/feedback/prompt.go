package feedback

import (
	"bytes"
	"text/template"

	"github.com/abhisek/iqro/internal/curriculum"
)

const systemPrompt = `You are a patient Quran reading teacher checking a child's Iqro practice.
You compare what the child was asked to read with a transcription of what they said.
Transcriptions are imperfect: accept small spelling differences that sound the same.
Judge the consonant, the short vowel (fathah a, kasrah i, dammah u) and vowel length.
Respond with JSON only.`

var userTmpl = template.Must(template.New("user").Parse(
	`Section: {{.Item.SectionTitle}}
Expected (Arabic): {{.Item.Arabic}}
Expected (transliteration): {{.Item.Transliteration}}
Child said: {{.Heard}}`))

func buildMessage(item curriculum.Item, heard string) (string, error) {
	var buf bytes.Buffer
	err := userTmpl.Execute(&buf, struct {
		Item  curriculum.Item
		Heard string
	}{item, heard})
	return buf.String(), err
}

const liveSystemPrompt = `You are a warm Quran reading teacher listening to a child practise Iqro.
Speak briefly and simply. First read the requested sound aloud once and ask the child to repeat it.
When the child answers, say whether it was right and, if not, read it once more slowly.
Never read more than the requested sound.`

var liveTmpl = template.Must(template.New("live").Parse(
	`Today's sound is {{.Arabic}} ({{.Transliteration}}) from "{{.SectionTitle}}". Please begin.`))

// LivePrompt returns the system instruction and opening message for a
// spoken practice session on item.
func LivePrompt(item curriculum.Item) (system, opening string) {
	var buf bytes.Buffer
	// The template only reads string fields of item.
	_ = liveTmpl.Execute(&buf, item)
	return liveSystemPrompt, buf.String()
}
