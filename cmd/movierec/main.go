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

package main

import (
	_ "net/http/pprof"

	"github.com/eray-yuztyurk/movie-recommender-app/base/log"
	"github.com/eray-yuztyurk/movie-recommender-app/config"
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/eray-yuztyurk/movie-recommender-app/lookup"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/eray-yuztyurk/movie-recommender-app/server"
	"github.com/eray-yuztyurk/movie-recommender-app/storage/cache"
	"github.com/eray-yuztyurk/movie-recommender-app/storage/data"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "movierec",
	Short: "A collaborative filtering movie recommender.",
	Run: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debugMode)
		configPath, _ := cmd.PersistentFlags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config",
				zap.String("config", configPath), zap.Error(err))
		}
		full, reduced, m, err := prepare(cfg)
		if err != nil {
			log.Logger().Fatal("failed to prepare dataset", zap.Error(err))
		}
		log.Logger().Info("built matrix",
			zap.Int("num_users", m.CountUsers()),
			zap.Int("num_items", m.CountItems()),
			zap.Int("num_reduced_ratings", reduced.Count()),
			zap.Float64("sparsity", m.Sparsity()))
		s := server.NewRestServer(cfg, m, full, lookup.FromDataset(full))
		s.StartHttpServer()
	},
}

// prepare returns the datasets and the matrix, from snapshots when a complete
// set exists, otherwise from the configured source followed by a snapshot
// save.
func prepare(cfg *config.Config) (full, reduced *dataset.Dataset, m *matrix.Matrix, err error) {
	store := cache.NewSnapshotStore(cfg.Cache.DumpDir)
	if store.Exist() {
		return store.Load()
	}
	full, err = loadSource(cfg)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	reduced = full.Reduce(cfg.Data.UserRatingThreshold, cfg.Data.ItemRatedThreshold)
	log.Logger().Info("reduced dataset",
		zap.Int("num_ratings", full.Count()),
		zap.Int("num_reduced_ratings", reduced.Count()))
	m = matrix.Build(reduced)
	if err = store.Save(full, reduced, m); err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	return full, reduced, m, nil
}

// loadSource reads the dataset from the configured SQLite database when
// data.database_path is set, otherwise from the CSV files.
func loadSource(cfg *config.Config) (*dataset.Dataset, error) {
	if cfg.Data.DatabasePath == "" {
		return dataset.LoadCSV(cfg.Data.MoviesPath, cfg.Data.RatingsPath)
	}
	log.Logger().Info("loading dataset from database",
		zap.String("database_path", cfg.Data.DatabasePath))
	db, err := data.Open(cfg.Data.DatabasePath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Logger().Error("failed to close database", zap.Error(err))
		}
	}()
	return db.LoadDataset()
}

var importCommand = &cobra.Command{
	Use:   "import DATABASE_PATH",
	Short: "Import the CSV dataset into an SQLite database.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debugMode)
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config",
				zap.String("config", configPath), zap.Error(err))
		}
		movies, err := dataset.LoadMovies(cfg.Data.MoviesPath)
		if err != nil {
			log.Logger().Fatal("failed to load movies", zap.Error(err))
		}
		ratings, err := dataset.LoadCSV(cfg.Data.MoviesPath, cfg.Data.RatingsPath)
		if err != nil {
			log.Logger().Fatal("failed to load ratings", zap.Error(err))
		}
		db, err := data.Open(args[0])
		if err != nil {
			log.Logger().Fatal("failed to open database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Logger().Error("failed to close database", zap.Error(err))
			}
		}()
		if err = db.Init(); err != nil {
			log.Logger().Fatal("failed to create tables", zap.Error(err))
		}
		if err = db.ImportDataset(movies, ratings); err != nil {
			log.Logger().Fatal("failed to import dataset", zap.Error(err))
		}
	},
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "configuration file path")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.AddCommand(importCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
