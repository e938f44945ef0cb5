package matching

import "bookwise/backend/internal/model"

// genreKeywords maps each genre to lowercase keywords substring-matched
// against book descriptions. Order matters: the first hit wins.
var genreKeywords = map[model.Genre][]string{
	model.GenreFantasy:    {"magic", "wizard", "dragon", "kingdom", "quest", "sorcery", "elf"},
	model.GenreSciFi:      {"space", "robot", "alien", "galaxy", "future", "spaceship", "android"},
	model.GenreMystery:    {"detective", "murder", "clue", "investigation", "suspect", "whodunit"},
	model.GenreThriller:   {"conspiracy", "chase", "assassin", "espionage", "hostage", "suspense"},
	model.GenreRomance:    {"love", "heart", "passion", "wedding", "romance", "affair"},
	model.GenreHorror:     {"ghost", "haunted", "demon", "nightmare", "curse", "terror"},
	model.GenreBiography:  {"memoir", "life story", "autobiography", "true story"},
	model.GenreHistory:    {"war", "empire", "revolution", "ancient", "dynasty", "medieval"},
	model.GenreSelfHelp:   {"habits", "mindset", "productivity", "success", "motivation", "self-improvement"},
	model.GenrePoetry:     {"poems", "verse", "sonnet", "haiku", "stanza"},
	model.GenreNonFiction: {"essays", "journalism", "research", "analysis", "reportage"},
	model.GenreClassic:    {"victorian", "classic", "timeless", "literary canon"},
}
