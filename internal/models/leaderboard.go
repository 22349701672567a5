package models

// CategoryRank is a leaderboard entry for a category ranked by the total gold
// received by its photos.
type CategoryRank struct {
	Category Category `json:"category"`
	Rank     int      `json:"rank"`
	Value    int64    `json:"value"`
}

// PhotoRank is a leaderboard entry for a photo ranked by its gold count.
type PhotoRank struct {
	Photo Photo `json:"photo"`
	Rank  int   `json:"rank"`
	Value int64 `json:"value"`
}

// UserRank is a leaderboard entry for a user ranked by a gold metric
// (balance for the wealthiest list, gold given for the most benevolent list).
type UserRank struct {
	User  User  `json:"user"`
	Rank  int   `json:"rank"`
	Value int64 `json:"value"`
}

// Leaderboard is the full ranked aggregate view served to clients.
// Running the same query twice against unchanged data yields identical
// ordering and ranks.
type Leaderboard struct {
	TopCategories      []CategoryRank `json:"top_categories"`
	TopPhotos          []PhotoRank    `json:"top_photos"`
	WealthiestUsers    []UserRank     `json:"wealthiest_users"`
	MostBenevolentUsers []UserRank    `json:"most_benevolent_users"`
}
