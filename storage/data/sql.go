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

// Package data stores movies and ratings in a relational database, as an
// alternative source to the CSV files.
package data

import (
	"github.com/eray-yuztyurk/movie-recommender-app/base/log"
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const batchSize = 1000

var gormConfig = &gorm.Config{
	Logger: logger.Default.LogMode(logger.Silent),
	NamingStrategy: schema.NamingStrategy{
		SingularTable: true,
	},
}

// Movie is the item-metadata table.
type Movie struct {
	ItemId int    `gorm:"column:item_id;primaryKey"`
	Title  string `gorm:"column:title;type:text not null"`
	Genres string `gorm:"column:genres;type:text not null"`
}

// Rating is the interaction table.
type Rating struct {
	UserId    int     `gorm:"column:user_id;primaryKey;index:user_id"`
	ItemId    int     `gorm:"column:item_id;primaryKey;index:item_id"`
	Rating    float64 `gorm:"column:rating;not null"`
	Timestamp int64   `gorm:"column:time_stamp;not null"`
}

// SQLDatabase stores movies and ratings in SQLite.
type SQLDatabase struct {
	gormDB *gorm.DB
}

// Open connects to an SQLite database file, creating it when absent.
func Open(path string) (*SQLDatabase, error) {
	gormDB, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &SQLDatabase{gormDB: gormDB}, nil
}

// Init creates tables and indices.
func (d *SQLDatabase) Init() error {
	return errors.Trace(d.gormDB.AutoMigrate(Movie{}, Rating{}))
}

// Close closes the underlying connection.
func (d *SQLDatabase) Close() error {
	db, err := d.gormDB.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(db.Close())
}

// Purge removes all rows from all tables.
func (d *SQLDatabase) Purge() error {
	for _, tableName := range []string{"movie", "rating"} {
		if err := d.gormDB.Exec("DELETE FROM " + tableName).Error; err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// ImportDataset inserts movies and ratings in batches, replacing existing
// rows.
func (d *SQLDatabase) ImportDataset(movies []dataset.Movie, ratings *dataset.Dataset) error {
	rows := make([]Movie, 0, len(movies))
	for _, movie := range movies {
		rows = append(rows, Movie{ItemId: movie.ItemId, Title: movie.Title, Genres: movie.Genres})
	}
	if len(rows) > 0 {
		if err := d.gormDB.Save(rows).Error; err != nil {
			return errors.Trace(err)
		}
	}
	batch := make([]Rating, 0, batchSize)
	for _, rating := range ratings.Ratings {
		batch = append(batch, Rating{
			UserId:    rating.UserId,
			ItemId:    rating.ItemId,
			Rating:    rating.Rating,
			Timestamp: rating.Timestamp,
		})
		if len(batch) == batchSize {
			if err := d.gormDB.Save(batch).Error; err != nil {
				return errors.Trace(err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := d.gormDB.Save(batch).Error; err != nil {
			return errors.Trace(err)
		}
	}
	log.Logger().Info("imported dataset",
		zap.Int("num_movies", len(movies)),
		zap.Int("num_ratings", ratings.Count()))
	return nil
}

// LoadDataset reads all ratings joined with movie metadata, in insertion
// order. Ratings on movies missing from the metadata table keep an empty
// name, matching the CSV loader.
func (d *SQLDatabase) LoadDataset() (*dataset.Dataset, error) {
	rows, err := d.gormDB.
		Table("rating").
		Select("rating.user_id, rating.item_id, rating.rating, rating.time_stamp, movie.title, movie.genres").
		Joins("LEFT JOIN movie ON movie.item_id = rating.item_id").
		Order("rating.rowid").
		Rows()
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	d2 := dataset.NewDataset(0)
	for rows.Next() {
		var (
			rating dataset.Rating
			title  *string
			genres *string
		)
		if err = rows.Scan(&rating.UserId, &rating.ItemId, &rating.Rating, &rating.Timestamp, &title, &genres); err != nil {
			return nil, errors.Trace(err)
		}
		if title != nil {
			rating.ItemName = *title
		}
		if genres != nil {
			rating.Genres = *genres
		}
		d2.Add(rating)
	}
	return d2, errors.Trace(rows.Err())
}
