package tmdb

// Genre is a TMDb genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a TMDb keyword.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one credited performer.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// Credits holds cast lists.
type Credits struct {
	Cast       []CastMember `json:"cast"`
	GuestStars []CastMember `json:"guest_stars"`
}

// ExternalIDs holds cross-references to other databases.
type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// MovieResult is one entry of /search/movie.
type MovieResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

// TVResult is one entry of /search/tv.
type TVResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

type searchResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalResults int `json:"total_results"`
}

// MovieDetails is /movie/{id} with credits, keywords and external ids appended.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	IMDbID       string  `json:"imdb_id"`
	Genres       []Genre `json:"genres"`
	Credits      Credits `json:"credits"`
	Keywords     struct {
		Keywords []Keyword `json:"keywords"`
	} `json:"keywords"`
	ExternalIDs ExternalIDs `json:"external_ids"`
}

// TVDetails is /tv/{id} with credits, keywords and external ids appended.
type TVDetails struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Overview       string  `json:"overview"`
	FirstAirDate   string  `json:"first_air_date"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	VoteAverage    float64 `json:"vote_average"`
	PosterPath     string  `json:"poster_path"`
	BackdropPath   string  `json:"backdrop_path"`
	Genres         []Genre `json:"genres"`
	Credits        Credits `json:"credits"`
	Keywords       struct {
		Results []Keyword `json:"results"`
	} `json:"keywords"`
	ExternalIDs ExternalIDs `json:"external_ids"`
}

// EpisodeDetails is /tv/{id}/season/{s}/episode/{e} with credits and external ids appended.
type EpisodeDetails struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Overview      string       `json:"overview"`
	AirDate       string       `json:"air_date"`
	SeasonNumber  int          `json:"season_number"`
	EpisodeNumber int          `json:"episode_number"`
	Runtime       int          `json:"runtime"`
	VoteAverage   float64      `json:"vote_average"`
	StillPath     string       `json:"still_path"`
	Credits       Credits      `json:"credits"`
	GuestStars    []CastMember `json:"guest_stars"`
	ExternalIDs   ExternalIDs  `json:"external_ids"`
}

// SearchResult is the flattened search entry returned to API clients.
type SearchResult struct {
	ID         int     `json:"id"`
	MediaType  string  `json:"media_type"`
	Title      string  `json:"title"`
	Year       string  `json:"year,omitempty"`
	Overview   string  `json:"overview"`
	PosterPath string  `json:"poster_path,omitempty"`
	Score      float64 `json:"score"`
}
