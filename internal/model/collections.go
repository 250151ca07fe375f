package model

// Document store collection names
const (
	CollectionGames  = "games"
	CollectionUsers  = "users"
	CollectionCities = "cities"
)
