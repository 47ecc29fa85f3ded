package domain

// FallbackHandle is the account the sample posts link to.
const FallbackHandle = "JesseRodPodcast"

var fallbackCatalog = [...]Post{
	{
		Text:      "🎙️ New episode dropping tomorrow! Breaking down the latest WWE storylines and what's next for CM Punk in Chicago.",
		URL:       StatusURL(FallbackHandle, "123456789"),
		CreatedAt: "2024-09-12T10:00:00Z",
		ID:        "123456789",
	},
	{
		Text:      "That AJ Lee return was INSANE! Wrestling fans, we need to talk about this game-changing moment on SmackDown.",
		URL:       StatusURL(FallbackHandle, "123456790"),
		CreatedAt: "2024-09-12T08:00:00Z",
		ID:        "123456790",
	},
	{
		Text:      "John Cena's farewell tour hits different in Chicago. The emotion, the history, the legacy. Full breakdown coming soon! 🏆",
		URL:       StatusURL(FallbackHandle, "123456791"),
		CreatedAt: "2024-09-11T15:00:00Z",
		ID:        "123456791",
	},
	{
		Text:      "Behind the scenes: Preparing for a huge interview with a wrestling industry insider. This one's going to be special! 🤼‍♂️",
		URL:       StatusURL(FallbackHandle, "123456792"),
		CreatedAt: "2024-09-11T12:00:00Z",
		ID:        "123456792",
	},
	{
		Text:      "WrestleMania 40 predictions are heating up! Who do you think will main event? Drop your thoughts below! 🎯",
		URL:       StatusURL(FallbackHandle, "123456793"),
		CreatedAt: "2024-09-10T18:00:00Z",
		ID:        "123456793",
	},
}

// FallbackCatalog returns a fresh copy of the sample posts served whenever
// live retrieval cannot produce a result.
func FallbackCatalog() []Post {
	posts := make([]Post, len(fallbackCatalog))
	copy(posts, fallbackCatalog[:])
	return posts
}
