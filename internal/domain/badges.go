package domain

// Badge identifiers. The catalog is static; runtime code only ever reads it.
const (
	BadgeFirstInk       = "first_ink"
	BadgeProlificAuthor = "prolific_author"
	BadgeVeteranAuthor  = "veteran_author"

	BadgeRisingStar    = "rising_star"
	BadgeCrowdFavorite = "crowd_favorite"
	BadgeInfluencer    = "influencer"

	BadgeFirstWord         = "first_word"
	BadgeConversationalist = "conversationalist"

	BadgeCuriousReader = "curious_reader"

	BadgeThousandViews = "thousand_views"
	BadgeWellLoved     = "well_loved"

	BadgeQuizEnthusiast = "quiz_enthusiast"
	BadgeTopTen         = "top_ten"
	BadgeQuizChampion   = "quiz_champion"
)

// Badges is the static badge catalog keyed by badge id.
var Badges = map[string]Badge{
	BadgeFirstInk:       {ID: BadgeFirstInk, Name: "First Ink", Description: "Publish your first article", Category: CategoryWriter},
	BadgeProlificAuthor: {ID: BadgeProlificAuthor, Name: "Prolific Author", Description: "Publish 5 articles", Category: CategoryWriter},
	BadgeVeteranAuthor:  {ID: BadgeVeteranAuthor, Name: "Veteran Author", Description: "Publish 10 articles", Category: CategoryWriter},

	BadgeRisingStar:    {ID: BadgeRisingStar, Name: "Rising Star", Description: "Reach 10 followers", Category: CategoryCommunity},
	BadgeCrowdFavorite: {ID: BadgeCrowdFavorite, Name: "Crowd Favorite", Description: "Reach 100 followers", Category: CategoryCommunity},
	BadgeInfluencer:    {ID: BadgeInfluencer, Name: "Influencer", Description: "Reach 1000 followers", Category: CategoryCommunity},

	BadgeFirstWord:         {ID: BadgeFirstWord, Name: "First Word", Description: "Post your first comment", Category: CategoryCommunity},
	BadgeConversationalist: {ID: BadgeConversationalist, Name: "Conversationalist", Description: "Post 50 comments", Category: CategoryCommunity},

	BadgeCuriousReader: {ID: BadgeCuriousReader, Name: "Curious Reader", Description: "Read 10 different articles", Category: CategoryReader},

	BadgeThousandViews: {ID: BadgeThousandViews, Name: "Thousand Views", Description: "An article of yours reached 1000 views", Category: CategoryQuality},
	BadgeWellLoved:     {ID: BadgeWellLoved, Name: "Well Loved", Description: "An article of yours reached 100 likes", Category: CategoryQuality},

	BadgeQuizEnthusiast: {ID: BadgeQuizEnthusiast, Name: "Quiz Enthusiast", Description: "Submit 10 quiz attempts", Category: CategoryQuiz},
	BadgeTopTen:         {ID: BadgeTopTen, Name: "Top Ten", Description: "Place in the top 10 of an article leaderboard", Category: CategoryQuiz},
	BadgeQuizChampion:   {ID: BadgeQuizChampion, Name: "Quiz Champion", Description: "Take first place on an article leaderboard", Category: CategoryQuiz},
}
