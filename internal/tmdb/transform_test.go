package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const movieFixture = `{
  "id": 603,
  "title": "The Matrix",
  "overview": "Set in the 22nd century...",
  "release_date": "1999-03-30",
  "runtime": 136,
  "vote_average": 8.217,
  "poster_path": "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
  "backdrop_path": "/ncEsesgOJDNrTUED89hYbA117wo.jpg",
  "imdb_id": "tt0133093",
  "genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}],
  "credits": {"cast": [
    {"name": "Carrie-Anne Moss", "order": 2},
    {"name": "Keanu Reeves", "order": 0},
    {"name": "Laurence Fishburne", "order": 1},
    {"name": "Hugo Weaving", "order": 3},
    {"name": "Gloria Foster", "order": 4},
    {"name": "Joe Pantoliano", "order": 5},
    {"name": "Marcus Chong", "order": 6},
    {"name": "Julian Arahanga", "order": 7},
    {"name": "Matt Doran", "order": 8},
    {"name": "Belinda McClory", "order": 9},
    {"name": "Anthony Ray Parker", "order": 10}
  ]},
  "keywords": {"keywords": [{"id": 1, "name": "hacker"}, {"id": 2, "name": "simulated reality"}]}
}`

const showFixture = `{
  "id": 1396,
  "name": "Breaking Bad",
  "overview": "A chemistry teacher...",
  "first_air_date": "2008-01-20",
  "episode_run_time": [45],
  "vote_average": 8.9,
  "poster_path": "/ggFHVNu6YYI5L9pCfOacjizRGt.jpg",
  "genres": [{"id": 18, "name": "Drama"}],
  "keywords": {"results": [{"id": 3, "name": "drug dealer"}]},
  "credits": {"cast": [{"name": "Bryan Cranston", "order": 0}]},
  "external_ids": {"imdb_id": "tt0903747"}
}`

const episodeFixture = `{
  "id": 62086,
  "name": "Cat's in the Bag...",
  "overview": "Walt and Jesse attempt to tie up loose ends.",
  "air_date": "2008-01-27",
  "season_number": 1,
  "episode_number": 2,
  "runtime": 48,
  "vote_average": 8.26,
  "still_path": "/tjDNvbokPLtEnpFyFPyXMOd6Zr1.jpg",
  "credits": {"cast": [{"name": "Bryan Cranston", "order": 0}, {"name": "Aaron Paul", "order": 1}]},
  "guest_stars": [{"name": "Max Arciniega", "order": 500}],
  "external_ids": {"imdb_id": "tt1054724"}
}`

func TestMovieToFormData(t *testing.T) {
	var d MovieDetails
	require.NoError(t, json.Unmarshal([]byte(movieFixture), &d))

	f := MovieToFormData(&d)

	assert.Empty(t, f.Filename)
	assert.Equal(t, "The Matrix", f.Title)
	assert.Equal(t, 8.2, f.Score)
	assert.Equal(t, "1999-03-30", f.ReleaseDate)
	assert.Equal(t, 136, f.Runtime)
	assert.Equal(t, 603, f.TMDbID)
	assert.Equal(t, "tt0133093", f.IMDbID)
	assert.Equal(t, []string{"Action", "Science Fiction"}, f.Genres)
	assert.Equal(t, []string{"hacker", "simulated reality"}, f.Keywords)
	require.Len(t, f.Cast, MaxCast)
	assert.Equal(t, "Keanu Reeves", f.Cast[0])
	assert.Equal(t, "Laurence Fishburne", f.Cast[1])
	assert.NotContains(t, f.Cast, "Anthony Ray Parker")
	assert.Equal(t, "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg", f.PosterPath)
}

func TestEpisodeToFormData(t *testing.T) {
	var show TVDetails
	var ep EpisodeDetails
	require.NoError(t, json.Unmarshal([]byte(showFixture), &show))
	require.NoError(t, json.Unmarshal([]byte(episodeFixture), &ep))

	f := EpisodeToFormData(&show, &ep)

	assert.Equal(t, "Breaking Bad S01E02 - Cat's in the Bag...", f.Title)
	assert.Equal(t, "Breaking Bad", f.ShowName)
	assert.Equal(t, "Cat's in the Bag...", f.EpisodeTitle)
	require.NotNil(t, f.Season)
	require.NotNil(t, f.Episode)
	assert.Equal(t, 1, *f.Season)
	assert.Equal(t, 2, *f.Episode)
	assert.Equal(t, "Walt and Jesse attempt to tie up loose ends.", f.Description)
	assert.Equal(t, 8.3, f.Score)
	assert.Equal(t, 48, f.Runtime)
	assert.Equal(t, "2008-01-27", f.ReleaseDate)
	assert.Equal(t, []string{"Bryan Cranston", "Aaron Paul", "Max Arciniega"}, f.Cast)
	assert.Equal(t, []string{"Drama"}, f.Genres)
	assert.Equal(t, []string{"drug dealer"}, f.Keywords)
	assert.Equal(t, 1396, f.TMDbID)
	assert.Equal(t, "tt1054724", f.IMDbID)
	assert.Equal(t, "/ggFHVNu6YYI5L9pCfOacjizRGt.jpg", f.PosterPath)
	assert.Equal(t, "/tjDNvbokPLtEnpFyFPyXMOd6Zr1.jpg", f.BackdropPath)
}

func TestTVToFormDataWithoutEpisode(t *testing.T) {
	var show TVDetails
	require.NoError(t, json.Unmarshal([]byte(showFixture), &show))

	f := TVToFormData(&show)

	assert.Equal(t, 45, f.Runtime)
	assert.Equal(t, "tt0903747", f.IMDbID)
	assert.Nil(t, f.Season)
}
