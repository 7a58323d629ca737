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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/stat"
)

// Rating is one interaction record: a user rated an item once. Records are
// immutable after loading.
type Rating struct {
	UserId    int
	ItemId    int
	Rating    float64
	Timestamp int64
	ItemName  string
	Genres    string
}

// Dataset holds an ordered sequence of rating records.
type Dataset struct {
	Ratings []Rating
}

func NewDataset(capacity int) *Dataset {
	return &Dataset{Ratings: make([]Rating, 0, capacity)}
}

func (d *Dataset) Add(rating Rating) {
	d.Ratings = append(d.Ratings, rating)
}

func (d *Dataset) Count() int {
	return len(d.Ratings)
}

func (d *Dataset) CountUsers() int {
	users := mapset.NewSet[int]()
	for _, r := range d.Ratings {
		users.Add(r.UserId)
	}
	return users.Cardinality()
}

func (d *Dataset) CountItems() int {
	items := mapset.NewSet[int]()
	for _, r := range d.Ratings {
		items.Add(r.ItemId)
	}
	return items.Cardinality()
}

// Reduce removes users with fewer than userThreshold ratings and items with
// fewer than itemThreshold ratings. Both counts are taken on the unreduced
// dataset and applied in one pass, so a retained user may end up with fewer
// than userThreshold ratings among the retained items. This mirrors the
// behavior the matrices downstream were tuned against; do not replace it with
// a fixed-point reduction.
func (d *Dataset) Reduce(userThreshold, itemThreshold int) *Dataset {
	userCount := make(map[int]int)
	itemCount := make(map[int]int)
	for _, r := range d.Ratings {
		userCount[r.UserId]++
		itemCount[r.ItemId]++
	}
	reduced := NewDataset(len(d.Ratings))
	for _, r := range d.Ratings {
		if userCount[r.UserId] >= userThreshold && itemCount[r.ItemId] >= itemThreshold {
			reduced.Add(r)
		}
	}
	return reduced
}

// Stats summarizes a dataset for reporting.
type Stats struct {
	NumRatings   int
	NumUsers     int
	NumItems     int
	MeanRating   float64
	MedianRating float64
	StdDevRating float64
	MinTimestamp int64
	MaxTimestamp int64
}

func (d *Dataset) Stats() Stats {
	s := Stats{
		NumRatings: d.Count(),
		NumUsers:   d.CountUsers(),
		NumItems:   d.CountItems(),
	}
	if s.NumRatings == 0 {
		return s
	}
	values := make([]float64, 0, len(d.Ratings))
	s.MinTimestamp = d.Ratings[0].Timestamp
	s.MaxTimestamp = d.Ratings[0].Timestamp
	for _, r := range d.Ratings {
		values = append(values, r.Rating)
		if r.Timestamp < s.MinTimestamp {
			s.MinTimestamp = r.Timestamp
		}
		if r.Timestamp > s.MaxTimestamp {
			s.MaxTimestamp = r.Timestamp
		}
	}
	s.MeanRating = stat.Mean(values, nil)
	s.StdDevRating = stat.StdDev(values, nil)
	sort.Float64s(values)
	s.MedianRating = stat.Quantile(0.5, stat.Empirical, values, nil)
	return s
}
