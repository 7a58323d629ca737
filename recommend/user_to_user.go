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
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/juju/errors"
)

// Correlation is the Pearson correlation of one neighbor with the target
// user. Defined is false when the correlation could not be computed; such
// neighbors can survive the permissive 0.0 threshold and contribute zero
// weight during aggregation.
type Correlation struct {
	Score   float64
	Defined bool
}

// CandidateTable holds the ratings of similar users on items the target user
// has not rated. An empty table is the normal "no similar users found"
// outcome, not an error.
type CandidateTable struct {
	Users []int // surviving similar users, correlation descending, undefined last
	Items []int // candidate items with at least one rating among Users
	cols  []*matrix.SparseVector // per item, indices are positions in Users
}

// Empty reports whether the table holds no candidates.
func (t *CandidateTable) Empty() bool {
	return len(t.Users) == 0 || len(t.Items) == 0
}

// RecommendForUser finds users whose rating pattern correlates with the
// target user and collects their ratings on items the target has not rated.
//
// A candidate must have rated strictly more than
// len(ratedItems)*overlapFraction of the target's rated items. Correlation is
// then computed over all columns, pairwise-complete. When corrThreshold is
// exactly 0.0 neighbors with undefined correlation are retained as well; any
// other threshold requires a defined score >= corrThreshold.
//
// The returned map carries the correlation per surviving user. Filtering that
// eliminates every candidate yields an empty table and a nil error.
func RecommendForUser(m *matrix.Matrix, userId int, overlapFraction, corrThreshold float64) (*CandidateTable, map[int]Correlation, error) {
	targetIndex := m.Users.ToDenseId(userId)
	if targetIndex == matrix.NotId {
		return nil, nil, errors.Annotatef(base.ErrUserNotExist, "id %d", userId)
	}
	targetRow := m.Rows[targetIndex]
	if targetRow.Len() == 0 {
		return nil, nil, errors.Annotatef(base.ErrEmptyProfile, "user %d", userId)
	}
	countThreshold := float64(targetRow.Len()) * overlapFraction

	// filter candidates by overlap with the target's rated items
	candidates := make([]int, 0)
	for userIndex, row := range m.Rows {
		overlap := 0
		targetRow.ForIntersection(row, func(int, float64, float64) {
			overlap++
		})
		if float64(overlap) > countThreshold {
			candidates = append(candidates, userIndex)
		}
	}
	if len(candidates) == 0 {
		return &CandidateTable{}, map[int]Correlation{}, nil
	}

	// correlate survivors with the target and apply the threshold
	type neighbor struct {
		userIndex int
		corr      Correlation
	}
	neighbors := make([]neighbor, 0, len(candidates))
	for _, userIndex := range candidates {
		if userIndex == targetIndex {
			continue
		}
		r, ok := matrix.PearsonCorrelation(m.Rows[userIndex], targetRow)
		var keep bool
		if corrThreshold == 0.0 {
			keep = !ok || r >= 0.0
		} else {
			keep = ok && r >= corrThreshold
		}
		if keep {
			neighbors = append(neighbors, neighbor{userIndex: userIndex, corr: Correlation{Score: r, Defined: ok}})
		}
	}
	if len(neighbors) == 0 {
		return &CandidateTable{}, map[int]Correlation{}, nil
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		a, b := neighbors[i], neighbors[j]
		if a.corr.Defined != b.corr.Defined {
			return a.corr.Defined
		}
		if !a.corr.Defined {
			return false
		}
		return a.corr.Score > b.corr.Score
	})

	corrs := make(map[int]Correlation, len(neighbors))
	positions := make(map[int]int, len(neighbors))
	table := &CandidateTable{Users: make([]int, 0, len(neighbors))}
	for pos, nb := range neighbors {
		sparseId := m.Users.ToSparseId(nb.userIndex)
		table.Users = append(table.Users, sparseId)
		corrs[sparseId] = nb.corr
		positions[nb.userIndex] = pos
	}

	// collect ratings of similar users on items the target has not rated,
	// dropping items no survivor has rated
	rated := mapset.NewThreadUnsafeSet(targetRow.Indices...)
	for itemIndex, col := range m.Cols {
		if rated.Contains(itemIndex) {
			continue
		}
		vec := matrix.NewSparseVector()
		col.ForEach(func(_, userIndex int, value float64) {
			if pos, exist := positions[userIndex]; exist {
				vec.Add(pos, value)
			}
		})
		if vec.Len() == 0 {
			continue
		}
		vec.SortIndex()
		table.Items = append(table.Items, m.Items.ToSparseId(itemIndex))
		table.cols = append(table.cols, vec)
	}
	return table, corrs, nil
}

// Recommendation is one ranked item of an aggregated result.
type Recommendation struct {
	ItemId       int
	Score        float64
	MatchPercent int
}

// MatchPercent converts a predicted rating to a 0-100 match percentage,
// clamping the rating to the [0, 5] scale first.
func MatchPercent(score float64) int {
	clamped := math.Max(0, math.Min(score, 5))
	return int(math.Round(clamped / 5 * 100))
}

// Aggregate ranks candidate items by similarity-weighted average rating.
// Each neighbor weighs in with its correlation score, zero when undefined;
// the denominator is the total weight of all neighbors, so items rated by few
// of them are pulled down. A non-positive total weight scores every item 0.
// Items whose match percentage falls below minMatchPercent are dropped before
// the list is cut to n.
func (t *CandidateTable) Aggregate(corrs map[int]Correlation, n, minMatchPercent int) ([]Recommendation, error) {
	if n <= 0 {
		return nil, errors.Annotatef(base.ErrInvalidInput, "n must be positive, got %d", n)
	}
	weights := make([]float64, len(t.Users))
	totalWeight := 0.0
	for i, userId := range t.Users {
		if c, exist := corrs[userId]; exist && c.Defined {
			weights[i] = c.Score
		}
		totalWeight += weights[i]
	}
	recommendations := make([]Recommendation, 0, len(t.Items))
	for i, itemId := range t.Items {
		score := 0.0
		if totalWeight > 0 {
			sum := 0.0
			t.cols[i].ForEach(func(_, pos int, rating float64) {
				sum += weights[pos] * rating
			})
			score = sum / totalWeight
		}
		recommendations = append(recommendations, Recommendation{
			ItemId:       itemId,
			Score:        score,
			MatchPercent: MatchPercent(score),
		})
	}
	return rank(recommendations, n, minMatchPercent), nil
}

// Mean ranks candidate items by the unweighted mean rating of the neighbors
// that rated them. Used for recommendations to existing users, where every
// surviving neighbor counts the same.
func (t *CandidateTable) Mean(n int) ([]Recommendation, error) {
	if n <= 0 {
		return nil, errors.Annotatef(base.ErrInvalidInput, "n must be positive, got %d", n)
	}
	recommendations := make([]Recommendation, 0, len(t.Items))
	for i, itemId := range t.Items {
		sum := 0.0
		t.cols[i].ForEach(func(_, _ int, rating float64) {
			sum += rating
		})
		score := sum / float64(t.cols[i].Len())
		recommendations = append(recommendations, Recommendation{
			ItemId:       itemId,
			Score:        score,
			MatchPercent: MatchPercent(score),
		})
	}
	return rank(recommendations, n, 0), nil
}

func rank(recommendations []Recommendation, n, minMatchPercent int) []Recommendation {
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	ranked := make([]Recommendation, 0, n)
	for _, r := range recommendations {
		if r.MatchPercent < minMatchPercent {
			continue
		}
		ranked = append(ranked, r)
		if len(ranked) == n {
			break
		}
	}
	return ranked
}
