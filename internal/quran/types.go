package quran

// Edition identifies a text or translation.
type Edition struct {
	Identifier  string `json:"identifier"`
	Language    string `json:"language"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
	Format      string `json:"format"`
	Type        string `json:"type"`
	Direction   string `json:"direction"`
}

// SurahInfo is the surah summary carried by ayahs and pages.
type SurahInfo struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	RevelationType         string `json:"revelationType"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
}

// Surah is a chapter with its verses.
type Surah struct {
	SurahInfo
	Ayahs   []Ayah  `json:"ayahs"`
	Edition Edition `json:"edition"`
}

// Ayah is one verse.
type Ayah struct {
	Number        int        `json:"number"`
	Text          string     `json:"text"`
	NumberInSurah int        `json:"numberInSurah"`
	Juz           int        `json:"juz"`
	Page          int        `json:"page"`
	Audio         string     `json:"audio,omitempty"`
	Surah         *SurahInfo `json:"surah,omitempty"`
	Edition       *Edition   `json:"edition,omitempty"`
}

// Page is one mushaf page.
type Page struct {
	Number  int     `json:"number"`
	Ayahs   []Ayah  `json:"ayahs"`
	Edition Edition `json:"edition"`
}
