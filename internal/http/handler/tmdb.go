package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"vaultcast/internal/tmdb"
)

// SearchTMDb searches movies or TV shows by title.
//
// @Summary Search TMDb
// @Tags tmdb
// @Produce json
// @Param type query string false "movie or tv" default(movie)
// @Param query query string true "title"
// @Param year query int false "release year (movies only)"
// @Success 200 {array} tmdb.SearchResult
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /api/tmdb/search [get]
func SearchTMDb(api tmdb.API) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "query is required")
		}
		year := 0
		if y := c.Query("year"); y != "" {
			n, err := strconv.Atoi(y)
			if err != nil || n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
			}
			year = n
		}

		out := make([]tmdb.SearchResult, 0)
		switch c.Query("type", "movie") {
		case "movie":
			res, err := api.SearchMovie(c.UserContext(), query, year)
			if err != nil {
				return respondError(c, err)
			}
			for _, r := range res {
				out = append(out, tmdb.MovieResultToSearch(r))
			}
		case "tv":
			res, err := api.SearchTV(c.UserContext(), query)
			if err != nil {
				return respondError(c, err)
			}
			for _, r := range res {
				out = append(out, tmdb.TVResultToSearch(r))
			}
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "type must be movie or tv")
		}
		return c.JSON(out)
	}
}

// GetTMDbMovie returns a movie's details mapped onto the video form.
//
// @Summary TMDb movie details
// @Tags tmdb
// @Produce json
// @Param id path int true "TMDb movie id"
// @Success 200 {object} model.VideoFormData
// @Router /api/tmdb/movie/{id} [get]
func GetTMDbMovie(api tmdb.API) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := intParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		d, err := api.MovieDetails(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tmdb.MovieToFormData(d))
	}
}

// GetTMDbShow returns a TV show's details mapped onto the video form.
//
// @Summary TMDb show details
// @Tags tmdb
// @Produce json
// @Param id path int true "TMDb show id"
// @Success 200 {object} model.VideoFormData
// @Router /api/tmdb/tv/{id} [get]
func GetTMDbShow(api tmdb.API) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := intParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		d, err := api.TVDetails(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tmdb.TVToFormData(d))
	}
}

// GetTMDbEpisode returns one episode merged over its show's details.
//
// @Summary TMDb episode details
// @Tags tmdb
// @Produce json
// @Param id path int true "TMDb show id"
// @Param season path int true "season number"
// @Param episode path int true "episode number"
// @Success 200 {object} model.VideoFormData
// @Router /api/tmdb/tv/{id}/season/{season}/episode/{episode} [get]
func GetTMDbEpisode(api tmdb.API) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := intParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		season, ok := intParam(c, "season")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SEASON", "invalid season")
		}
		episode, ok := intParam(c, "episode")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EPISODE", "invalid episode")
		}

		show, err := api.TVDetails(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		ep, err := api.EpisodeDetails(c.UserContext(), id, season, episode)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tmdb.EpisodeToFormData(show, ep))
	}
}
