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

package recommend

import (
	"testing"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestSimilarItems(t *testing.T) {
	m := buildTestMatrix()
	// item 20 tracks item 10 perfectly, item 30 runs opposite
	scores, err := SimilarItems(m, 10, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(scores))
	assert.Equal(t, 20, scores[0].Id)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-6)
	assert.Equal(t, 30, scores[1].Id)
	assert.InDelta(t, -1.0, scores[1].Score, 1e-6)
	for _, score := range scores {
		assert.NotEqual(t, 10, score.Id)
		assert.True(t, score.Defined)
	}
}

func TestSimilarItemsTruncates(t *testing.T) {
	m := buildTestMatrix()
	scores, err := SimilarItems(m, 10, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(scores))
	assert.Equal(t, 20, scores[0].Id)
}

func TestSimilarItemsUnknown(t *testing.T) {
	m := buildTestMatrix()
	_, err := SimilarItems(m, 42, 3)
	assert.True(t, errors.Is(err, base.ErrItemNotExist))
}

func TestSimilarItemsInvalidN(t *testing.T) {
	m := buildTestMatrix()
	_, err := SimilarItems(m, 10, 0)
	assert.True(t, errors.Is(err, base.ErrInvalidInput))
}
