package tmdb

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"vaultcast/internal/model"
)

// MaxCast is how many cast names a transformed record keeps.
const MaxCast = 10

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

func castNames(members ...[]CastMember) []string {
	var all []CastMember
	seen := make(map[string]bool)
	for _, list := range members {
		sorted := append([]CastMember(nil), list...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
		for _, m := range sorted {
			if m.Name == "" || seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			all = append(all, m)
		}
	}
	if len(all) > MaxCast {
		all = all[:MaxCast]
	}
	names := make([]string, 0, len(all))
	for _, m := range all {
		names = append(names, m.Name)
	}
	return names
}

func genreNames(gs []Genre) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}

func keywordNames(ks []Keyword) []string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		out = append(out, k.Name)
	}
	return out
}

func year(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// MovieToFormData flattens movie details into a VideoFormData without a filename.
func MovieToFormData(d *MovieDetails) model.VideoFormData {
	imdb := d.IMDbID
	if imdb == "" {
		imdb = d.ExternalIDs.IMDbID
	}
	return model.VideoFormData{
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Overview,
		Score:        roundScore(d.VoteAverage),
		ReleaseDate:  d.ReleaseDate,
		Runtime:      d.Runtime,
		Cast:         castNames(d.Credits.Cast),
		Genres:       genreNames(d.Genres),
		Keywords:     keywordNames(d.Keywords.Keywords),
		TMDbID:       d.ID,
		IMDbID:       imdb,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
	}
}

// TVToFormData flattens show-level details, used when no episode is known.
func TVToFormData(d *TVDetails) model.VideoFormData {
	runtime := 0
	if len(d.EpisodeRunTime) > 0 {
		runtime = d.EpisodeRunTime[0]
	}
	return model.VideoFormData{
		Title:        d.Name,
		Description:  d.Overview,
		Score:        roundScore(d.VoteAverage),
		ReleaseDate:  d.FirstAirDate,
		Runtime:      runtime,
		Cast:         castNames(d.Credits.Cast),
		Genres:       genreNames(d.Genres),
		Keywords:     keywordNames(d.Keywords.Results),
		TMDbID:       d.ID,
		IMDbID:       d.ExternalIDs.IMDbID,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		ShowName:     d.Name,
	}
}

// EpisodeToFormData combines show and episode details. Episode fields win;
// genres, keywords and artwork come from the show.
func EpisodeToFormData(show *TVDetails, ep *EpisodeDetails) model.VideoFormData {
	out := TVToFormData(show)

	season, episode := ep.SeasonNumber, ep.EpisodeNumber
	out.Season = &season
	out.Episode = &episode
	out.EpisodeTitle = ep.Name
	out.Title = fmt.Sprintf("%s S%02dE%02d", show.Name, season, episode)
	if ep.Name != "" {
		out.Title += " - " + ep.Name
	}
	if ep.Overview != "" {
		out.Description = ep.Overview
	}
	if ep.VoteAverage > 0 {
		out.Score = roundScore(ep.VoteAverage)
	}
	if ep.AirDate != "" {
		out.ReleaseDate = ep.AirDate
	}
	if ep.Runtime > 0 {
		out.Runtime = ep.Runtime
	}
	if cast := castNames(ep.Credits.Cast, ep.GuestStars, ep.Credits.GuestStars); len(cast) > 0 {
		out.Cast = cast
	}
	if ep.ExternalIDs.IMDbID != "" {
		out.IMDbID = ep.ExternalIDs.IMDbID
	}
	if ep.StillPath != "" {
		out.BackdropPath = ep.StillPath
	}
	return out
}

// MovieResultToSearch flattens a movie search hit.
func MovieResultToSearch(r MovieResult) SearchResult {
	return SearchResult{
		ID:         r.ID,
		MediaType:  "movie",
		Title:      r.Title,
		Year:       year(r.ReleaseDate),
		Overview:   r.Overview,
		PosterPath: r.PosterPath,
		Score:      roundScore(r.VoteAverage),
	}
}

// TVResultToSearch flattens a TV search hit.
func TVResultToSearch(r TVResult) SearchResult {
	return SearchResult{
		ID:         r.ID,
		MediaType:  "tv",
		Title:      r.Name,
		Year:       year(r.FirstAirDate),
		Overview:   r.Overview,
		PosterPath: r.PosterPath,
		Score:      roundScore(r.VoteAverage),
	}
}
