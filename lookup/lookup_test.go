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

package lookup

import (
	"testing"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func buildLookup() *Lookup {
	l := New()
	l.Add(1, "The Matrix")
	l.Add(2, "Amélie")
	l.Add(3, "Léon: The Professional")
	l.Add(4, "Matrix Reloaded, The")
	return l
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "amelie", Normalize("Amélie"))
	assert.Equal(t, "leon: the professional", Normalize("Léon: The Professional"))
	assert.Equal(t, "the matrix", Normalize("The Matrix"))
}

func TestNameById(t *testing.T) {
	l := buildLookup()
	name, err := l.NameById(2)
	assert.NoError(t, err)
	assert.Equal(t, "Amélie", name)

	_, err = l.NameById(99)
	assert.True(t, errors.Is(err, base.ErrItemNotExist))
	assert.Contains(t, err.Error(), "99")
}

func TestIdByName(t *testing.T) {
	l := buildLookup()
	// normalized match
	id, err := l.IdByName("amelie")
	assert.NoError(t, err)
	assert.Equal(t, 2, id)
	id, err = l.IdByName("LÉON: The Professional")
	assert.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = l.IdByName("No Such Movie")
	assert.True(t, errors.Is(err, base.ErrItemNotExist))
}

func TestRoundTrip(t *testing.T) {
	l := buildLookup()
	for _, id := range []int{1, 2, 3, 4} {
		name, err := l.NameById(id)
		assert.NoError(t, err)
		got, err := l.IdByName(name)
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestSearch(t *testing.T) {
	l := buildLookup()
	results, err := l.Search("matrix", 10)
	assert.NoError(t, err)
	names := lo.Map(results, func(item Item, _ int) string { return item.Name })
	assert.Equal(t, []string{"The Matrix", "Matrix Reloaded, The"}, names)

	// diacritic-insensitive
	results, err = l.Search("amelie", 10)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Id)

	// truncation
	results, err = l.Search("matrix", 1)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "The Matrix", results[0].Name)
}

func TestSearchNoFuzzyMatch(t *testing.T) {
	l := buildLookup()
	results, err := l.Search("matrx", 10)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchInvalid(t *testing.T) {
	l := buildLookup()
	_, err := l.Search("matrix", 0)
	assert.True(t, errors.Is(err, base.ErrInvalidInput))
}

func TestDuplicateNamesDeduplicated(t *testing.T) {
	l := New()
	l.Add(1, "Toy Story")
	l.Add(1, "Toy Story")
	l.Add(2, "Toy Story")
	assert.Equal(t, 1, l.Len())
	id, err := l.IdByName("Toy Story")
	assert.NoError(t, err)
	assert.Equal(t, 1, id)
}
