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

package matrix

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PearsonCorrelation computes the Pearson correlation coefficient between two
// sparse vectors over pairwise-complete observations: only indices where both
// vectors have a present value are used, and the means are taken over that
// subset. The second return value is false when fewer than 2 paired
// observations exist or either paired subset has zero variance.
func PearsonCorrelation(a, b *SparseVector) (float64, bool) {
	var xs, ys []float64
	a.ForIntersection(b, func(_ int, x, y float64) {
		xs = append(xs, x)
		ys = append(ys, y)
	})
	if len(xs) < 2 {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
