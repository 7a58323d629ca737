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
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
)

// Matrix is the user-item interaction matrix: one row per user, one column
// per item, cells are ratings. Rows and columns are stored as sorted sparse
// vectors over dense ids, so a matrix is safe for concurrent reads once built.
type Matrix struct {
	Users *IdSet
	Items *IdSet
	Rows  []*SparseVector // user-major, indices are dense item ids
	Cols  []*SparseVector // item-major, indices are dense user ids
}

// Build creates the interaction matrix from a dataset. If the dataset holds
// multiple ratings for one (user, item) pair, the last one wins.
func Build(d *dataset.Dataset) *Matrix {
	m := &Matrix{
		Users: NewIdSet(),
		Items: NewIdSet(),
	}
	cells := make([]map[int]float64, 0)
	for _, r := range d.Ratings {
		m.Users.Add(r.UserId)
		m.Items.Add(r.ItemId)
		userIndex := m.Users.ToDenseId(r.UserId)
		if userIndex == len(cells) {
			cells = append(cells, make(map[int]float64))
		}
		cells[userIndex][m.Items.ToDenseId(r.ItemId)] = r.Rating
	}
	m.Rows = make([]*SparseVector, len(cells))
	m.Cols = make([]*SparseVector, m.Items.Len())
	for itemIndex := range m.Cols {
		m.Cols[itemIndex] = NewSparseVector()
	}
	for userIndex, row := range cells {
		vec := NewSparseVector()
		for itemIndex, value := range row {
			vec.Add(itemIndex, value)
		}
		vec.SortIndex()
		m.Rows[userIndex] = vec
		vec.ForEach(func(_, itemIndex int, value float64) {
			m.Cols[itemIndex].Add(userIndex, value)
		})
	}
	for _, col := range m.Cols {
		col.SortIndex()
	}
	return m
}

// CountUsers returns the number of rows.
func (m *Matrix) CountUsers() int {
	return m.Users.Len()
}

// CountItems returns the number of columns.
func (m *Matrix) CountItems() int {
	return m.Items.Len()
}

// CountRatings returns the number of present cells.
func (m *Matrix) CountRatings() int {
	count := 0
	for _, row := range m.Rows {
		count += row.Len()
	}
	return count
}

// Sparsity returns the fraction of absent cells.
func (m *Matrix) Sparsity() float64 {
	total := m.CountUsers() * m.CountItems()
	if total == 0 {
		return 0
	}
	return 1 - float64(m.CountRatings())/float64(total)
}

// UserRow returns a user's row, or nil if the user is unknown.
func (m *Matrix) UserRow(userId int) *SparseVector {
	userIndex := m.Users.ToDenseId(userId)
	if userIndex == NotId {
		return nil
	}
	return m.Rows[userIndex]
}

// ItemColumn returns an item's column, or nil if the item is unknown.
func (m *Matrix) ItemColumn(itemId int) *SparseVector {
	itemIndex := m.Items.ToDenseId(itemId)
	if itemIndex == NotId {
		return nil
	}
	return m.Cols[itemIndex]
}

// SyntheticUserId is the user id of the transient row appended by
// WithSyntheticUser.
const SyntheticUserId = -1

// WithSyntheticUser returns a matrix extended by one transient user row built
// from a profile snapshot (item id -> rating). Profile items that are not
// columns of the matrix are dropped. The receiver is never mutated: the
// extension shares the existing rows, and must not outlive one query when the
// receiver is shared between sessions. Item columns are not extended; the
// synthetic row only participates in row-wise operations.
func (m *Matrix) WithSyntheticUser(profile map[int]float64) *Matrix {
	users := m.Users.Clone()
	users.Add(SyntheticUserId)
	row := NewSparseVector()
	for itemId, rating := range profile {
		if itemIndex := m.Items.ToDenseId(itemId); itemIndex != NotId {
			row.Add(itemIndex, rating)
		}
	}
	row.SortIndex()
	rows := make([]*SparseVector, len(m.Rows), len(m.Rows)+1)
	copy(rows, m.Rows)
	rows = append(rows, row)
	return &Matrix{
		Users: users,
		Items: m.Items,
		Rows:  rows,
		Cols:  m.Cols,
	}
}
