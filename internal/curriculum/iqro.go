package curriculum

// Default returns the built-in curriculum.
func Default() *Curriculum {
	return New(iqroLevels)
}

func letters(pairs ...string) []Item {
	items := make([]Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, Item{Arabic: pairs[i], Transliteration: pairs[i+1]})
	}
	return items
}

var iqroLevels = []Level{
	{
		Number: 1,
		Title:  "Single letters with fathah",
		Sections: []Section{
			{Title: "Alif, Ba, Ta", Items: letters("أَ", "a", "بَ", "ba", "تَ", "ta")},
			{Title: "Tsa, Jim, Ha", Items: letters("ثَ", "tsa", "جَ", "ja", "حَ", "ha")},
			{Title: "Kho, Dal, Dzal", Items: letters("خَ", "kho", "دَ", "da", "ذَ", "dza")},
			{Title: "Ro, Za, Sin", Items: letters("رَ", "ro", "زَ", "za", "سَ", "sa")},
			{Title: "Syin, Shod, Dhod", Items: letters("شَ", "sya", "صَ", "sho", "ضَ", "dho")},
		},
	},
	{
		Number: 2,
		Title:  "Joined letters",
		Sections: []Section{
			{Title: "Ba joined", Items: letters("بَتَ", "bata", "بَثَ", "batsa", "بَجَ", "baja")},
			{Title: "Ka and La", Items: letters("كَلَ", "kala", "لَكَ", "laka", "كَتَبَ", "kataba")},
			{Title: "Long vowels", Items: letters("بَا", "baa", "تَا", "taa", "سَا", "saa")},
		},
	},
	{
		Number: 3,
		Title:  "Kasrah and dhammah",
		Sections: []Section{
			{Title: "Kasrah", Items: letters("بِ", "bi", "تِ", "ti", "سِ", "si")},
			{Title: "Dhammah", Items: letters("بُ", "bu", "تُ", "tu", "سُ", "su")},
			{Title: "Mixed", Items: letters("بَبِبُ", "ba bi bu", "كُتُبُ", "kutubu", "سُبُلُ", "subulu")},
		},
	},
}
