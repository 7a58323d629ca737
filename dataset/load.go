// Copyright 2025 Movie Recommender App Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
)

// Movie is one row of the item-metadata table.
type Movie struct {
	ItemId int
	Title  string
	Genres string
}

// LoadMovies reads the item-metadata table (movieId,title,genres).
func LoadMovies(path string) ([]Movie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	// skip header
	if _, err = reader.Read(); err != nil {
		return nil, errors.Trace(err)
	}
	movies := make([]Movie, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		if len(record) < 3 {
			return nil, errors.Annotatef(base.ErrInvalidInput, "movie row %v", record)
		}
		itemId, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Annotatef(base.ErrInvalidInput, "movie id %q", record[0])
		}
		movies = append(movies, Movie{ItemId: itemId, Title: record[1], Genres: record[2]})
	}
	return movies, nil
}

// LoadCSV reads the rating-event table (userId,movieId,rating,timestamp) and
// left-joins it with the item-metadata table on the item id. Ratings for items
// without metadata are kept with empty name and genres.
func LoadCSV(moviesPath, ratingsPath string) (*Dataset, error) {
	movies, err := LoadMovies(moviesPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	index := make(map[int]Movie, len(movies))
	for _, movie := range movies {
		index[movie.ItemId] = movie
	}

	file, err := os.Open(ratingsPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, errors.Trace(err)
	}
	bar := progressbar.DefaultBytes(info.Size(), "load ratings")
	reader := csv.NewReader(io.TeeReader(file, bar))
	// skip header
	if _, err = reader.Read(); err != nil {
		return nil, errors.Trace(err)
	}
	dataset := NewDataset(0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		if len(record) < 4 {
			return nil, errors.Annotatef(base.ErrInvalidInput, "rating row %v", record)
		}
		userId, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, errors.Annotatef(base.ErrInvalidInput, "user id %q", record[0])
		}
		itemId, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, errors.Annotatef(base.ErrInvalidInput, "item id %q", record[1])
		}
		rating, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, errors.Annotatef(base.ErrInvalidInput, "rating %q", record[2])
		}
		timestamp, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, errors.Annotatef(base.ErrInvalidInput, "timestamp %q", record[3])
		}
		movie := index[itemId]
		dataset.Add(Rating{
			UserId:    userId,
			ItemId:    itemId,
			Rating:    rating,
			Timestamp: timestamp,
			ItemName:  movie.Title,
			Genres:    movie.Genres,
		})
	}
	_ = bar.Finish()
	return dataset, nil
}
