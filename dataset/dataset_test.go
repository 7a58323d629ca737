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
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func rate(userId, itemId int, rating float64) Rating {
	return Rating{UserId: userId, ItemId: itemId, Rating: rating}
}

func TestReduce(t *testing.T) {
	d := NewDataset(0)
	// user 1 rates 3 items, user 2 rates 2 items, user 3 rates 1 item
	d.Add(rate(1, 10, 5))
	d.Add(rate(1, 20, 4))
	d.Add(rate(1, 30, 3))
	d.Add(rate(2, 10, 5))
	d.Add(rate(2, 20, 4))
	d.Add(rate(3, 10, 1))

	reduced := d.Reduce(2, 2)
	users := lo.Map(reduced.Ratings, func(r Rating, _ int) int { return r.UserId })
	items := lo.Map(reduced.Ratings, func(r Rating, _ int) int { return r.ItemId })
	assert.NotContains(t, users, 3)
	assert.NotContains(t, items, 30)
	assert.Equal(t, 4, reduced.Count())
}

func TestReduceOnePass(t *testing.T) {
	d := NewDataset(0)
	// Item 20 is rated twice overall but one of its raters (user 3) is removed
	// by the user threshold. The item keeps its pre-removal count and survives
	// even though only one rating remains.
	d.Add(rate(1, 10, 5))
	d.Add(rate(1, 20, 4))
	d.Add(rate(2, 10, 5))
	d.Add(rate(2, 30, 3))
	d.Add(rate(3, 20, 1))

	reduced := d.Reduce(2, 2)
	items := lo.Map(reduced.Ratings, func(r Rating, _ int) int { return r.ItemId })
	assert.Contains(t, items, 20)
	assert.Equal(t, 1, lo.Count(items, 20))
}

func TestReduceKeepsOrder(t *testing.T) {
	d := NewDataset(0)
	d.Add(rate(1, 10, 5))
	d.Add(rate(2, 10, 4))
	d.Add(rate(1, 20, 3))
	d.Add(rate(2, 20, 2))
	reduced := d.Reduce(1, 1)
	assert.Equal(t, d.Ratings, reduced.Ratings)
}

func TestStats(t *testing.T) {
	d := NewDataset(0)
	d.Add(Rating{UserId: 1, ItemId: 10, Rating: 1, Timestamp: 100})
	d.Add(Rating{UserId: 1, ItemId: 20, Rating: 3, Timestamp: 300})
	d.Add(Rating{UserId: 2, ItemId: 10, Rating: 5, Timestamp: 200})
	s := d.Stats()
	assert.Equal(t, 3, s.NumRatings)
	assert.Equal(t, 2, s.NumUsers)
	assert.Equal(t, 2, s.NumItems)
	assert.InDelta(t, 3.0, s.MeanRating, 1e-6)
	assert.InDelta(t, 3.0, s.MedianRating, 1e-6)
	assert.Equal(t, int64(100), s.MinTimestamp)
	assert.Equal(t, int64(300), s.MaxTimestamp)
}

func TestStatsEmpty(t *testing.T) {
	d := NewDataset(0)
	s := d.Stats()
	assert.Equal(t, 0, s.NumRatings)
	assert.Zero(t, s.MeanRating)
}
