package model

// Video kinds double as collection names.
const (
	KindMovies = "movies"
	KindTV     = "tv"
)

// ValidKind reports whether kind names a video collection.
func ValidKind(kind string) bool {
	return kind == KindMovies || kind == KindTV
}

// VideoFormData is the editable shape of a movie or TV episode record.
// TMDb transformers produce it and the catalog API accepts it.
type VideoFormData struct {
	Filename     string   `json:"filename" validate:"notblank"`
	Title        string   `json:"title" validate:"notblank"`
	Description  string   `json:"description"`
	Score        float64  `json:"score" validate:"min=0,max=10"`
	ReleaseDate  string   `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Runtime      int      `json:"runtime,omitempty" validate:"min=0"`
	Cast         []string `json:"cast"`
	Genres       []string `json:"genres"`
	Keywords     []string `json:"keywords"`
	TMDbID       int      `json:"tmdb_id,omitempty"`
	IMDbID       string   `json:"imdb_id,omitempty"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`

	// TV only.
	ShowName     string `json:"show_name,omitempty"`
	Season       *int   `json:"season,omitempty" validate:"omitempty,min=0"`
	Episode      *int   `json:"episode,omitempty" validate:"omitempty,min=0"`
	EpisodeTitle string `json:"episode_title,omitempty"`
}

// Video is a stored movie or TV episode.
type Video struct {
	Base
	VideoFormData
}

// RecordKey returns the unique key of the record within its collection.
func (v Video) RecordKey() string { return v.Filename }

// RecordTitle returns the searchable title.
func (v Video) RecordTitle() string { return v.Title }

// NeedsMetadata reports whether the record lacks TMDb metadata.
func (v Video) NeedsMetadata() bool {
	return v.TMDbID == 0 || v.Description == ""
}

// Merge copies fetched metadata into v, keeping v's filename.
// Empty fetched values never erase existing ones.
func (v *VideoFormData) Merge(fetched VideoFormData) {
	if fetched.Title != "" {
		v.Title = fetched.Title
	}
	if fetched.Description != "" {
		v.Description = fetched.Description
	}
	if fetched.Score > 0 {
		v.Score = fetched.Score
	}
	if fetched.ReleaseDate != "" {
		v.ReleaseDate = fetched.ReleaseDate
	}
	if fetched.Runtime > 0 {
		v.Runtime = fetched.Runtime
	}
	if len(fetched.Cast) > 0 {
		v.Cast = fetched.Cast
	}
	if len(fetched.Genres) > 0 {
		v.Genres = fetched.Genres
	}
	if len(fetched.Keywords) > 0 {
		v.Keywords = fetched.Keywords
	}
	if fetched.TMDbID != 0 {
		v.TMDbID = fetched.TMDbID
	}
	if fetched.IMDbID != "" {
		v.IMDbID = fetched.IMDbID
	}
	if fetched.PosterPath != "" {
		v.PosterPath = fetched.PosterPath
	}
	if fetched.BackdropPath != "" {
		v.BackdropPath = fetched.BackdropPath
	}
	if fetched.ShowName != "" {
		v.ShowName = fetched.ShowName
	}
	if fetched.Season != nil {
		v.Season = fetched.Season
	}
	if fetched.Episode != nil {
		v.Episode = fetched.Episode
	}
	if fetched.EpisodeTitle != "" {
		v.EpisodeTitle = fetched.EpisodeTitle
	}
}
