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

// Package cache persists the loaded dataset and the interaction matrix
// between runs, so restarts skip the CSV parse and the matrix build.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/eray-yuztyurk/movie-recommender-app/base/log"
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	datasetFile = "df.gob"
	reducedFile = "reduced_df.gob"
	matrixFile  = "matrix.gob"
)

// SnapshotStore reads and writes gob snapshots under a dump directory.
type SnapshotStore struct {
	dir string
}

func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Exist reports whether a complete snapshot set is present. A partial set
// counts as missing so a failed save never feeds a later load.
func (s *SnapshotStore) Exist() bool {
	for _, name := range []string{datasetFile, reducedFile, matrixFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Save writes the full dataset, the reduced dataset and the matrix.
func (s *SnapshotStore) Save(full, reduced *dataset.Dataset, m *matrix.Matrix) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Trace(err)
	}
	if err := s.encode(datasetFile, full); err != nil {
		return errors.Trace(err)
	}
	if err := s.encode(reducedFile, reduced); err != nil {
		return errors.Trace(err)
	}
	if err := s.encode(matrixFile, m); err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("saved snapshots", zap.String("dir", s.dir))
	return nil
}

// Load reads the full dataset, the reduced dataset and the matrix.
func (s *SnapshotStore) Load() (full, reduced *dataset.Dataset, m *matrix.Matrix, err error) {
	full = new(dataset.Dataset)
	if err = s.decode(datasetFile, full); err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	reduced = new(dataset.Dataset)
	if err = s.decode(reducedFile, reduced); err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	m = new(matrix.Matrix)
	if err = s.decode(matrixFile, m); err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	log.Logger().Info("loaded snapshots",
		zap.String("dir", s.dir),
		zap.Int("num_ratings", full.Count()),
		zap.Int("num_reduced_ratings", reduced.Count()))
	return full, reduced, m, nil
}

func (s *SnapshotStore) encode(name string, v any) error {
	file, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	if err = gob.NewEncoder(file).Encode(v); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(file.Sync())
}

func (s *SnapshotStore) decode(name string, v any) error {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	return errors.Trace(gob.NewDecoder(file).Decode(v))
}
