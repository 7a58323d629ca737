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
	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/juju/errors"
)

// Profile is a session-scoped set of ratings for an ad-hoc user. It is owned
// by the session layer; the engines only read snapshots. A Profile is not
// safe for concurrent use.
type Profile struct {
	ratings map[int]float64
}

// NewProfile creates an empty profile.
func NewProfile() *Profile {
	return &Profile{ratings: make(map[int]float64)}
}

// Set records a rating for an item, overwriting any previous rating. Ratings
// are on the 1-5 scale.
func (p *Profile) Set(itemId int, rating float64) error {
	if rating < 1 || rating > 5 {
		return errors.Annotatef(base.ErrInvalidInput, "rating %v out of range [1, 5]", rating)
	}
	p.ratings[itemId] = rating
	return nil
}

// Get returns the rating for an item.
func (p *Profile) Get(itemId int) (float64, bool) {
	rating, exist := p.ratings[itemId]
	return rating, exist
}

// Len returns the number of rated items.
func (p *Profile) Len() int {
	return len(p.ratings)
}

// Clear removes all ratings.
func (p *Profile) Clear() {
	p.ratings = make(map[int]float64)
}

// Snapshot returns a copy of the ratings safe to hand to an engine.
func (p *Profile) Snapshot() map[int]float64 {
	snapshot := make(map[int]float64, len(p.ratings))
	for itemId, rating := range p.ratings {
		snapshot[itemId] = rating
	}
	return snapshot
}
