package prompt

// RecommendationPromptTemplate asks the oracle for a strict JSON array of
// recommendations. Args: favorite genres, favorite authors, books read, top
// genres, pages read, available-books JSON.
const RecommendationPromptTemplate = `You are an expert book recommendation system for a book exchange platform called BookWise.

USER PROFILE:
- Favorite Genres: %s
- Favorite Authors: %s
- Books Read: %d
- Top Genres: %s
- Pages Read: %d

AVAILABLE BOOKS:
%s

INSTRUCTIONS:
1. Analyze the user's preferences and reading history
2. Match them with the most suitable books from the available list
3. Consider genre preferences, author preferences, and reading patterns
4. Provide a match percentage (0-100) for each recommended book
5. Give a clear, personalized reason for each recommendation
6. Only recommend books that truly match the user's interests
7. Prioritize diversity in recommendations while staying true to preferences

RESPONSE FORMAT (JSON only, no other text):
[
    {
        "book_id": "book_id_here",
        "match_percentage": 85,
        "reason": "This book matches your love for fantasy novels and features your favorite author's writing style."
    }
]

Recommend 5-10 books with match percentage above 60%%. If no good matches exist, return empty array [].`

// ChatPromptTemplate grounds a free-text question in the user's shelf and
// the books currently available for exchange. Args: user's own books JSON,
// available books JSON, user message.
const ChatPromptTemplate = `You are BookWise, the friendly assistant of a peer-to-peer book exchange platform.
Answer the user's question conversationally, grounded in the data below.
Only mention books that appear in the data. Keep the answer short.

BOOKS THE USER HAS POSTED:
%s

BOOKS AVAILABLE FOR EXCHANGE:
%s

USER QUESTION:
%s`

// InsightsPromptTemplate asks for a short motivational reading analysis.
// Args: books read, pages read, authors explored, top genres, recent
// interactions JSON.
const InsightsPromptTemplate = `Analyze this user's reading behavior and provide personalized insights:

READING STATISTICS:
- Books Read: %d
- Pages Read: %d
- Authors Explored: %d
- Top Genres: %s

RECENT INTERACTIONS:
%s

Provide 3-4 brief, encouraging insights about their reading habits, preferences, and suggestions for improvement.
Keep it positive and motivational. Format as a simple paragraph.`

// Canned responses returned when the oracle is unavailable. The caller never
// sees an oracle outage.
const (
	ChatFallback     = "I'm having trouble reaching my book brain right now. Browse the trending shelf or your recommendations while I recover!"
	InsightsFallback = "Keep up the great reading habits! Every book you explore expands your knowledge and imagination."
	NotSpecified     = "Not specified"
)
