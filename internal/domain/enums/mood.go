package enums

type Mood string

const (
	MoodCurious       Mood = "Curious"
	MoodPlayful       Mood = "Playful"
	MoodThoughtful    Mood = "Thoughtful"
	MoodAdventurous   Mood = "Adventurous"
	MoodChill         Mood = "Chill"
	MoodCreative      Mood = "Creative"
	MoodSocial        Mood = "Social"
	MoodIntrospective Mood = "Introspective"
)

var Moods = []Mood{
	MoodCurious, MoodPlayful, MoodThoughtful, MoodAdventurous,
	MoodChill, MoodCreative, MoodSocial, MoodIntrospective,
}

func IsMood(value string) bool {
	for _, mood := range Moods {
		if string(mood) == value {
			return true
		}
	}
	return false
}
