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

// Package lookup resolves item names to ids and back, with accent and case
// insensitive search.
package lookup

import (
	"strings"
	"unicode"

	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/juju/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var normalizer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics and case-folds a string for comparison.
func Normalize(s string) string {
	stripped, _, err := transform.String(normalizer, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// Item is one entry of the lookup table.
type Item struct {
	Id   int
	Name string
}

// Lookup is a bidirectional name/id table. Entries keep the first-seen order
// of the records they were built from.
type Lookup struct {
	items      []Item
	nameById   map[int]string
	idByRaw    map[string]int
	idByNormal map[string]int
}

// FromDataset builds a Lookup from rating records in order.
func FromDataset(d *dataset.Dataset) *Lookup {
	l := New()
	for _, r := range d.Ratings {
		l.Add(r.ItemId, r.ItemName)
	}
	return l
}

// New creates a Lookup. Duplicate names and ids keep their first occurrence.
func New() *Lookup {
	return &Lookup{
		items:      make([]Item, 0),
		nameById:   make(map[int]string),
		idByRaw:    make(map[string]int),
		idByNormal: make(map[string]int),
	}
}

// Add inserts one (id, name) pair.
func (l *Lookup) Add(id int, name string) {
	if _, exist := l.nameById[id]; !exist {
		l.nameById[id] = name
	}
	if _, exist := l.idByRaw[name]; !exist {
		l.idByRaw[name] = id
		l.items = append(l.items, Item{Id: id, Name: name})
	}
	normalized := Normalize(name)
	if _, exist := l.idByNormal[normalized]; !exist {
		l.idByNormal[normalized] = id
	}
}

// Len returns the number of distinct names.
func (l *Lookup) Len() int {
	return len(l.items)
}

// NameById returns the name of an item.
func (l *Lookup) NameById(id int) (string, error) {
	if name, exist := l.nameById[id]; exist {
		return name, nil
	}
	return "", errors.Annotatef(base.ErrItemNotExist, "id %d", id)
}

// IdByName returns the id of an item. Both sides are compared after diacritic
// stripping and case folding; when no normalized match exists the raw name is
// tried as an exact match.
func (l *Lookup) IdByName(name string) (int, error) {
	if id, exist := l.idByNormal[Normalize(name)]; exist {
		return id, nil
	}
	if id, exist := l.idByRaw[name]; exist {
		return id, nil
	}
	return 0, errors.Annotatef(base.ErrItemNotExist, "name %q", name)
}

// Search returns up to maxResults items whose normalized name contains the
// normalized keyword as a substring. No typo tolerance: "matrx" does not match
// "The Matrix". Results keep first-seen order.
func (l *Lookup) Search(keyword string, maxResults int) ([]Item, error) {
	if maxResults <= 0 {
		return nil, errors.Annotatef(base.ErrInvalidInput, "maxResults %d", maxResults)
	}
	normalized := Normalize(keyword)
	results := make([]Item, 0)
	for _, item := range l.items {
		if strings.Contains(Normalize(item.Name), normalized) {
			results = append(results, item)
			if len(results) == maxResults {
				break
			}
		}
	}
	return results, nil
}
