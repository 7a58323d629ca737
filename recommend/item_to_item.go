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

// Package recommend implements item-based similarity search and user-based
// recommendation over an interaction matrix.
package recommend

import (
	"sort"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/eray-yuztyurk/movie-recommender-app/base/parallel"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/juju/errors"
)

// Score is one entry of a similarity result. Defined is false when the
// correlation could not be computed (fewer than 2 co-raters or zero
// variance); such entries rank below every defined score.
type Score struct {
	Id      int
	Score   float64
	Defined bool
}

// SimilarItems ranks every other item by Pearson correlation with itemId over
// co-rated users and returns the top n. The target item correlates 1.0 with
// itself and always occupies rank 1; that rank is dropped from the result.
// Entries with undefined correlation stay in the ranking at the bottom, so a
// large n may surface them.
func SimilarItems(m *matrix.Matrix, itemId, n int) ([]Score, error) {
	if n <= 0 {
		return nil, errors.Annotatef(base.ErrInvalidInput, "n must be positive, got %d", n)
	}
	target := m.Items.ToDenseId(itemId)
	if target == matrix.NotId {
		return nil, errors.Annotatef(base.ErrItemNotExist, "id %d", itemId)
	}
	scores := make([]Score, m.CountItems())
	_ = parallel.Parallel(m.CountItems(), 0, func(_, itemIndex int) error {
		r, ok := matrix.PearsonCorrelation(m.Cols[target], m.Cols[itemIndex])
		scores[itemIndex] = Score{Id: m.Items.ToSparseId(itemIndex), Score: r, Defined: ok}
		return nil
	})
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Defined != b.Defined {
			return a.Defined
		}
		if !a.Defined {
			return false
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		// the self match wins ties so it is always rank 1
		return a.Id == itemId && b.Id != itemId
	})
	scores = scores[1:]
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}
