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

import "sort"

// IdSet manages the map between sparse IDs and dense IDs. The sparse ID is the
// raw user ID or item ID. The dense ID is the internal index optimized for
// faster access and less memory usage.
type IdSet struct {
	DenseIds  map[int]int // sparse ID -> dense ID
	SparseIds []int       // dense ID -> sparse ID
}

// NotId represents an ID that doesn't exist.
const NotId = -1

// NewIdSet creates an IdSet.
func NewIdSet() *IdSet {
	set := new(IdSet)
	set.DenseIds = make(map[int]int)
	set.SparseIds = make([]int, 0)
	return set
}

// Len returns the number of IDs.
func (set *IdSet) Len() int {
	if set == nil {
		return 0
	}
	return len(set.SparseIds)
}

// Add adds a new ID to the ID set.
func (set *IdSet) Add(sparseId int) {
	if _, exist := set.DenseIds[sparseId]; !exist {
		set.DenseIds[sparseId] = len(set.SparseIds)
		set.SparseIds = append(set.SparseIds, sparseId)
	}
}

// ToDenseId converts a sparse ID to a dense ID.
func (set *IdSet) ToDenseId(sparseId int) int {
	if set == nil {
		return NotId
	}
	if denseId, exist := set.DenseIds[sparseId]; exist {
		return denseId
	}
	return NotId
}

// ToSparseId converts a dense ID to a sparse ID.
func (set *IdSet) ToSparseId(denseId int) int {
	return set.SparseIds[denseId]
}

// Clone returns a copy sharing no state with the receiver.
func (set *IdSet) Clone() *IdSet {
	clone := NewIdSet()
	clone.SparseIds = make([]int, len(set.SparseIds))
	copy(clone.SparseIds, set.SparseIds)
	for sparseId, denseId := range set.DenseIds {
		clone.DenseIds[sparseId] = denseId
	}
	return clone
}

// SparseVector is the data structure for one row or column of the interaction
// matrix. A missing index is an absent cell, which is distinct from a zero
// rating.
type SparseVector struct {
	Indices []int
	Values  []float64
	Sorted  bool
}

// NewSparseVector creates a SparseVector.
func NewSparseVector() *SparseVector {
	return &SparseVector{
		Indices: make([]int, 0),
		Values:  make([]float64, 0),
	}
}

// Add a new item.
func (vec *SparseVector) Add(index int, value float64) {
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
	vec.Sorted = false
}

// Len returns the number of items.
func (vec *SparseVector) Len() int {
	if vec == nil {
		return 0
	}
	return len(vec.Values)
}

// Less returns true if the index of the i-th item is less than the index of
// the j-th item.
func (vec *SparseVector) Less(i, j int) bool {
	return vec.Indices[i] < vec.Indices[j]
}

// Swap two items.
func (vec *SparseVector) Swap(i, j int) {
	vec.Indices[i], vec.Indices[j] = vec.Indices[j], vec.Indices[i]
	vec.Values[i], vec.Values[j] = vec.Values[j], vec.Values[i]
}

// ForEach iterates items in the sparse vector.
func (vec *SparseVector) ForEach(f func(i, index int, value float64)) {
	for i := range vec.Indices {
		f(i, vec.Indices[i], vec.Values[i])
	}
}

// SortIndex sorts items by indices.
func (vec *SparseVector) SortIndex() {
	if !vec.Sorted {
		sort.Sort(vec)
		vec.Sorted = true
	}
}

// Get returns the value at an index. The second return value reports whether
// the cell is present.
func (vec *SparseVector) Get(index int) (float64, bool) {
	vec.SortIndex()
	pos := sort.SearchInts(vec.Indices, index)
	if pos < len(vec.Indices) && vec.Indices[pos] == index {
		return vec.Values[pos], true
	}
	return 0, false
}

// ForIntersection iterates items in the intersection of two vectors. The
// method sorts two vectors by indices first, then finds common indices in
// linear time.
func (vec *SparseVector) ForIntersection(other *SparseVector, f func(index int, a, b float64)) {
	vec.SortIndex()
	other.SortIndex()
	i, j := 0, 0
	for i < vec.Len() && j < other.Len() {
		if vec.Indices[i] == other.Indices[j] {
			f(vec.Indices[i], vec.Values[i], other.Values[j])
			i++
			j++
		} else if vec.Indices[i] < other.Indices[j] {
			i++
		} else {
			j++
		}
	}
}
