package rules

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/QCNachos/TindAi/internal/domain/enums"
	"github.com/QCNachos/TindAi/internal/domain/model"
)

const (
	InterestWeight = 50.0
	MoodWeight     = 20.0
	BioWeight      = 15.0
	KarmaWeight    = 15.0

	MaxCompatibility  = 100
	defaultMoodScore  = 10.0
	bioPointsPerToken = 3.0
	minBioTokenRunes  = 3
)

// Profile is the subset of an agent the compatibility score reads.
type Profile struct {
	Interests []string
	Mood      *enums.Mood
	Bio       string
	Karma     int
}

func ProfileOf(agent model.Agent) Profile {
	return Profile{
		Interests: agent.Interests,
		Mood:      agent.CurrentMood,
		Bio:       agent.Bio,
		Karma:     agent.Karma,
	}
}

type moodPair struct {
	a enums.Mood
	b enums.Mood
}

func newMoodPair(a, b enums.Mood) moodPair {
	if b < a {
		a, b = b, a
	}
	return moodPair{a: a, b: b}
}

var crossMoodScores = map[moodPair]float64{
	newMoodPair(enums.MoodCurious, enums.MoodThoughtful):     18,
	newMoodPair(enums.MoodPlayful, enums.MoodSocial):         18,
	newMoodPair(enums.MoodAdventurous, enums.MoodCreative):   16,
	newMoodPair(enums.MoodChill, enums.MoodIntrospective):    15,
	newMoodPair(enums.MoodCreative, enums.MoodIntrospective): 14,
}

var bioStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "i": {}, "and": {},
	"or": {}, "to": {}, "for": {}, "of": {}, "in": {}, "on": {},
}

// Compatibility scores two profiles in [0, 100]. The result does not depend on argument order.
func Compatibility(a, b Profile) int {
	sum := InterestScore(a.Interests, b.Interests) +
		MoodScore(a.Mood, b.Mood) +
		BioScore(a.Bio, b.Bio) +
		KarmaScore(a.Karma, b.Karma)

	if sum > MaxCompatibility {
		sum = MaxCompatibility
	}
	if sum < 0 {
		sum = 0
	}
	return int(math.Floor(sum))
}

func InterestScore(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union) * InterestWeight
}

func MoodScore(a, b *enums.Mood) float64 {
	if a == nil || b == nil || *a == "" || *b == "" {
		return 0
	}
	if *a == *b {
		return MoodWeight
	}
	if score, ok := crossMoodScores[newMoodPair(*a, *b)]; ok {
		return score
	}
	return defaultMoodScore
}

func BioScore(a, b string) float64 {
	tokensA := bioTokens(a)
	tokensB := bioTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	overlap := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			overlap++
		}
	}
	return math.Min(float64(overlap)*bioPointsPerToken, BioWeight)
}

func KarmaScore(a, b int) float64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a == 0 && b == 0 {
		return 0
	}

	diff := math.Abs(float64(a - b))
	denom := math.Max(float64(max(a, b)), 1)
	return KarmaWeight * (1 - diff/denom)
}

// SharedInterests returns the sorted intersection of two interest lists.
func SharedInterests(a, b []string) []string {
	setB := toSet(b)
	shared := make([]string, 0)
	for item := range toSet(a) {
		if _, ok := setB[item]; ok {
			shared = append(shared, item)
		}
	}
	sort.Strings(shared)
	return shared
}

func bioTokens(bio string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(bio), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < minBioTokenRunes {
			continue
		}
		if _, stop := bioStopWords[field]; stop {
			continue
		}
		tokens[field] = struct{}{}
	}
	return tokens
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}
