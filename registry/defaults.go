package registry

import "github.com/newsbrief/newsbrief/model"

// DefaultSources returns the built-in source catalog. Callers receive a
// fresh copy and may mutate it freely.
func DefaultSources() []model.Source {
	return []model.Source{
		{
			ID:       "openai-news",
			Name:     "OpenAI News",
			FeedURL:  "https://openai.com/news/rss.xml",
			Category: model.CategoryCompany,
			Enabled:  true,
			Color:    "#10a37f",
			Icon:     "sparkles",
		},
		{
			ID:       "google-ai-blog",
			Name:     "Google AI Blog",
			FeedURL:  "https://blog.google/technology/ai/rss/",
			Category: model.CategoryCompany,
			Enabled:  true,
			Color:    "#4285f4",
			Icon:     "search",
		},
		{
			ID:       "deepmind-blog",
			Name:     "Google DeepMind",
			FeedURL:  "https://deepmind.google/blog/rss.xml",
			Category: model.CategoryCompany,
			Enabled:  true,
			Color:    "#1a73e8",
			Icon:     "brain",
		},
		{
			ID:       "huggingface-blog",
			Name:     "Hugging Face Blog",
			FeedURL:  "https://huggingface.co/blog/feed.xml",
			Category: model.CategoryCompany,
			Enabled:  true,
			Color:    "#ffcc4d",
			Icon:     "smile",
		},
		{
			ID:       "verge-ai",
			Name:     "The Verge AI",
			FeedURL:  "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml",
			Category: model.CategoryNews,
			Enabled:  true,
			Color:    "#5200ff",
			Icon:     "newspaper",
		},
		{
			ID:       "techcrunch-ai",
			Name:     "TechCrunch AI",
			FeedURL:  "https://techcrunch.com/category/artificial-intelligence/feed/",
			Category: model.CategoryNews,
			Enabled:  true,
			Color:    "#0a8935",
			Icon:     "newspaper",
		},
		{
			ID:       "venturebeat-ai",
			Name:     "VentureBeat AI",
			FeedURL:  "https://venturebeat.com/category/ai/feed/",
			Category: model.CategoryNews,
			Enabled:  true,
			Color:    "#c8102e",
			Icon:     "trending-up",
		},
		{
			ID:       "mit-tech-review",
			Name:     "MIT Technology Review",
			FeedURL:  "https://www.technologyreview.com/topic/artificial-intelligence/feed",
			Category: model.CategoryNews,
			Enabled:  false,
			Color:    "#e4002b",
			Icon:     "book-open",
		},
		{
			ID:       "arxiv-cs-ai",
			Name:     "arXiv cs.AI",
			FeedURL:  "https://rss.arxiv.org/rss/cs.AI",
			Category: model.CategoryResearch,
			Enabled:  true,
			Color:    "#b31b1b",
			Icon:     "flask",
		},
		{
			ID:       "bair-blog",
			Name:     "BAIR Blog",
			FeedURL:  "https://bair.berkeley.edu/blog/feed.xml",
			Category: model.CategoryResearch,
			Enabled:  false,
			Color:    "#003262",
			Icon:     "flask",
		},
		{
			// Requires an authenticated integration; excluded from the
			// generic retrieval path by category.
			ID:       "x-ai-community",
			Name:     "X AI Community",
			FeedURL:  "https://x.com/i/ai",
			Category: model.CategorySocial,
			Enabled:  false,
			Color:    "#000000",
			Icon:     "message-circle",
		},
	}
}
