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

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/stretchr/testify/assert"
)

func newTestData() (*dataset.Dataset, *dataset.Dataset, *matrix.Matrix) {
	full := dataset.NewDataset(4)
	full.Add(dataset.Rating{UserId: 1, ItemId: 10, Rating: 5, ItemName: "a"})
	full.Add(dataset.Rating{UserId: 1, ItemId: 20, Rating: 4, ItemName: "b"})
	full.Add(dataset.Rating{UserId: 2, ItemId: 10, Rating: 3, ItemName: "a"})
	full.Add(dataset.Rating{UserId: 2, ItemId: 20, Rating: 2, ItemName: "b"})
	reduced := full.Reduce(1, 1)
	return full, reduced, matrix.Build(reduced)
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)
	assert.False(t, store.Exist())

	full, reduced, m := newTestData()
	assert.NoError(t, store.Save(full, reduced, m))
	assert.True(t, store.Exist())

	loadedFull, loadedReduced, loadedMatrix, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, full.Ratings, loadedFull.Ratings)
	assert.Equal(t, reduced.Ratings, loadedReduced.Ratings)
	assert.Equal(t, m.CountUsers(), loadedMatrix.CountUsers())
	assert.Equal(t, m.CountItems(), loadedMatrix.CountItems())
	assert.Equal(t, m.Rows, loadedMatrix.Rows)
}

func TestSnapshotPartial(t *testing.T) {
	dir := t.TempDir()
	store := NewSnapshotStore(dir)
	full, reduced, m := newTestData()
	assert.NoError(t, store.Save(full, reduced, m))
	assert.NoError(t, os.Remove(filepath.Join(dir, "matrix.gob")))
	assert.False(t, store.Exist())
	_, _, _, err := store.Load()
	assert.Error(t, err)
}

func TestSnapshotMissingDir(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "missing"))
	assert.False(t, store.Exist())
	_, _, _, err := store.Load()
	assert.Error(t, err)
}
