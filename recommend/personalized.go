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
	"sort"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/eray-yuztyurk/movie-recommender-app/config"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/juju/errors"
)

// Personalized recommends items for a session profile. The profile is
// attached to the matrix as a transient synthetic user row, the overlap and
// correlation thresholds are picked from the adaptive table by profile size,
// and neighbor ratings are aggregated with correlation weights. The shared
// matrix is never mutated, so concurrent sessions can call this with the same
// matrix. An empty result with a nil error means no similar users survived.
func Personalized(m *matrix.Matrix, profile *Profile, cfg *config.RecommendConfig, n int) ([]Recommendation, error) {
	if profile.Len() < cfg.MinProfileSize {
		return nil, errors.Annotatef(base.ErrInsufficientProfile,
			"%d ratings, need %d", profile.Len(), cfg.MinProfileSize)
	}
	snapshot := profile.Snapshot()
	extended := m.WithSyntheticUser(snapshot)
	overlapFraction, corrThreshold := cfg.AdaptiveParams(len(snapshot))
	table, corrs, err := RecommendForUser(extended, matrix.SyntheticUserId, overlapFraction, corrThreshold)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if table.Empty() {
		return []Recommendation{}, nil
	}
	return table.Aggregate(corrs, n, cfg.MinMatchPercent)
}

// SimilarToProfile suggests items correlated with any item the profile has
// rated, excluding the rated ones. Each candidate keeps its best correlation
// across the profile. Candidates below minMatchPercent (correlation scaled to
// 0-100) are dropped.
func SimilarToProfile(m *matrix.Matrix, profile *Profile, n, minMatchPercent int) ([]Score, error) {
	if n <= 0 {
		return nil, errors.Annotatef(base.ErrInvalidInput, "n must be positive, got %d", n)
	}
	best := make(map[int]float64)
	for itemId := range profile.Snapshot() {
		if m.Items.ToDenseId(itemId) == matrix.NotId {
			continue
		}
		scores, err := SimilarItems(m, itemId, 50)
		if err != nil {
			return nil, errors.Trace(err)
		}
		for _, score := range scores {
			if !score.Defined {
				continue
			}
			if _, rated := profile.Get(score.Id); rated {
				continue
			}
			if current, exist := best[score.Id]; !exist || score.Score > current {
				best[score.Id] = score.Score
			}
		}
	}
	results := make([]Score, 0, len(best))
	for itemId, score := range best {
		if int(score*100) < minMatchPercent {
			continue
		}
		results = append(results, Score{Id: itemId, Score: score, Defined: true})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Id < results[j].Id
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}
