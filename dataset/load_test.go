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
	"os"
	"path/filepath"
	"testing"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func TestLoadCSV(t *testing.T) {
	temp := t.TempDir()
	moviesPath := writeFile(t, temp, "movies.csv",
		"movieId,title,genres\n"+
			"1,Toy Story (1995),Adventure|Animation\n"+
			"2,Jumanji (1995),Adventure|Children\n")
	ratingsPath := writeFile(t, temp, "ratings.csv",
		"userId,movieId,rating,timestamp\n"+
			"1,1,4.0,964982703\n"+
			"1,2,3.5,964981247\n"+
			"2,1,5.0,964982224\n"+
			"2,3,2.0,964983815\n")

	d, err := LoadCSV(moviesPath, ratingsPath)
	assert.NoError(t, err)
	assert.Equal(t, 4, d.Count())
	assert.Equal(t, Rating{
		UserId:    1,
		ItemId:    1,
		Rating:    4.0,
		Timestamp: 964982703,
		ItemName:  "Toy Story (1995)",
		Genres:    "Adventure|Animation",
	}, d.Ratings[0])
	// rating without movie metadata keeps empty name
	assert.Equal(t, "", d.Ratings[3].ItemName)
}

func TestLoadCSVQuotedTitle(t *testing.T) {
	temp := t.TempDir()
	moviesPath := writeFile(t, temp, "movies.csv",
		"movieId,title,genres\n"+
			"1,\"American President, The (1995)\",Comedy|Drama\n")
	ratingsPath := writeFile(t, temp, "ratings.csv",
		"userId,movieId,rating,timestamp\n"+
			"1,1,4.0,964982703\n")
	d, err := LoadCSV(moviesPath, ratingsPath)
	assert.NoError(t, err)
	assert.Equal(t, "American President, The (1995)", d.Ratings[0].ItemName)
}

func TestLoadCSVInvalid(t *testing.T) {
	temp := t.TempDir()
	moviesPath := writeFile(t, temp, "movies.csv",
		"movieId,title,genres\n1,Toy Story (1995),Adventure\n")
	ratingsPath := writeFile(t, temp, "ratings.csv",
		"userId,movieId,rating,timestamp\nx,1,4.0,964982703\n")
	_, err := LoadCSV(moviesPath, ratingsPath)
	assert.True(t, errors.Is(err, base.ErrInvalidInput))
	assert.Contains(t, err.Error(), "x")
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV("no/such/movies.csv", "no/such/ratings.csv")
	assert.Error(t, err)
}
