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

func TestProfileSet(t *testing.T) {
	p := NewProfile()
	assert.NoError(t, p.Set(10, 4.5))
	assert.NoError(t, p.Set(10, 3))
	rating, exist := p.Get(10)
	assert.True(t, exist)
	assert.Equal(t, 3.0, rating)
	assert.Equal(t, 1, p.Len())
}

func TestProfileSetOutOfRange(t *testing.T) {
	p := NewProfile()
	assert.True(t, errors.Is(p.Set(10, 0.5), base.ErrInvalidInput))
	assert.True(t, errors.Is(p.Set(10, 5.5), base.ErrInvalidInput))
	assert.NoError(t, p.Set(10, 1))
	assert.NoError(t, p.Set(10, 5))
}

func TestProfileClear(t *testing.T) {
	p := NewProfile()
	assert.NoError(t, p.Set(10, 4))
	assert.NoError(t, p.Set(20, 2))
	p.Clear()
	assert.Zero(t, p.Len())
	_, exist := p.Get(10)
	assert.False(t, exist)
}

func TestProfileSnapshot(t *testing.T) {
	p := NewProfile()
	assert.NoError(t, p.Set(10, 4))
	snapshot := p.Snapshot()
	snapshot[10] = 1
	rating, _ := p.Get(10)
	assert.Equal(t, 4.0, rating)
}
