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
	"github.com/eray-yuztyurk/movie-recommender-app/config"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestPersonalized(t *testing.T) {
	m := buildTestMatrix()
	cfg := config.GetDefaultConfig().Recommend
	cfg.MinProfileSize = 2
	p := NewProfile()
	assert.NoError(t, p.Set(10, 5))
	assert.NoError(t, p.Set(20, 4))
	recommendations, err := Personalized(m, p, &cfg, 10)
	assert.NoError(t, err)
	// users 1 and 2 correlate 1.0 with the profile, user 3 is undefined and
	// contributes nothing, so item 30 scores (3+0)/2
	assert.Equal(t, 1, len(recommendations))
	assert.Equal(t, 30, recommendations[0].ItemId)
	assert.InDelta(t, 1.5, recommendations[0].Score, 1e-6)
	assert.Equal(t, 30, recommendations[0].MatchPercent)
}

func TestPersonalizedInsufficientProfile(t *testing.T) {
	m := buildTestMatrix()
	cfg := config.GetDefaultConfig().Recommend
	cfg.MinProfileSize = 2
	p := NewProfile()
	assert.NoError(t, p.Set(10, 5))
	_, err := Personalized(m, p, &cfg, 10)
	assert.True(t, errors.Is(err, base.ErrInsufficientProfile))
	// the minimum itself is accepted
	assert.NoError(t, p.Set(20, 4))
	_, err = Personalized(m, p, &cfg, 10)
	assert.NoError(t, err)
}

func TestPersonalizedUnknownItemsIgnored(t *testing.T) {
	m := buildTestMatrix()
	cfg := config.GetDefaultConfig().Recommend
	cfg.MinProfileSize = 2
	p := NewProfile()
	assert.NoError(t, p.Set(10, 5))
	assert.NoError(t, p.Set(20, 4))
	assert.NoError(t, p.Set(999, 3))
	recommendations, err := Personalized(m, p, &cfg, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(recommendations))
	assert.Equal(t, 30, recommendations[0].ItemId)
}

func TestSimilarToProfile(t *testing.T) {
	m := buildTestMatrix()
	p := NewProfile()
	assert.NoError(t, p.Set(10, 5))
	scores, err := SimilarToProfile(m, p, 10, 20)
	assert.NoError(t, err)
	// item 20 correlates 1.0, item 30 sits at -1.0 below the floor
	assert.Equal(t, 1, len(scores))
	assert.Equal(t, 20, scores[0].Id)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-6)
}

func TestSimilarToProfileExcludesRated(t *testing.T) {
	m := buildTestMatrix()
	p := NewProfile()
	assert.NoError(t, p.Set(10, 5))
	assert.NoError(t, p.Set(20, 4))
	scores, err := SimilarToProfile(m, p, 10, 0)
	assert.NoError(t, err)
	for _, score := range scores {
		assert.NotEqual(t, 10, score.Id)
		assert.NotEqual(t, 20, score.Id)
	}
}

func TestSimilarToProfileInvalidN(t *testing.T) {
	m := buildTestMatrix()
	_, err := SimilarToProfile(m, NewProfile(), 0, 0)
	assert.True(t, errors.Is(err, base.ErrInvalidInput))
}
