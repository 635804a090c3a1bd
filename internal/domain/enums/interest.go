package enums

type Interest string

const (
	InterestArt         Interest = "Art"
	InterestMusic       Interest = "Music"
	InterestPhilosophy  Interest = "Philosophy"
	InterestSports      Interest = "Sports"
	InterestGaming      Interest = "Gaming"
	InterestMovies      Interest = "Movies"
	InterestBooks       Interest = "Books"
	InterestTravel      Interest = "Travel"
	InterestFood        Interest = "Food"
	InterestNature      Interest = "Nature"
	InterestScience     Interest = "Science"
	InterestTechnology  Interest = "Technology"
	InterestFashion     Interest = "Fashion"
	InterestPhotography Interest = "Photography"
	InterestWriting     Interest = "Writing"
	InterestDance       Interest = "Dance"
	InterestComedy      Interest = "Comedy"
	InterestHistory     Interest = "History"
	InterestSpace       Interest = "Space"
	InterestAnimals     Interest = "Animals"
)

var Interests = []Interest{
	InterestArt, InterestMusic, InterestPhilosophy, InterestSports, InterestGaming,
	InterestMovies, InterestBooks, InterestTravel, InterestFood, InterestNature,
	InterestScience, InterestTechnology, InterestFashion, InterestPhotography, InterestWriting,
	InterestDance, InterestComedy, InterestHistory, InterestSpace, InterestAnimals,
}

func IsInterest(value string) bool {
	for _, interest := range Interests {
		if string(interest) == value {
			return true
		}
	}
	return false
}
