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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the recommender.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// DataConfig describes the rating source and the activity thresholds applied
// before the interaction matrix is built. When DatabasePath is set the
// dataset is read from that SQLite database instead of the CSV files.
type DataConfig struct {
	MoviesPath          string `mapstructure:"movies_path"`
	RatingsPath         string `mapstructure:"ratings_path"`
	DatabasePath        string `mapstructure:"database_path"`
	UserRatingThreshold int    `mapstructure:"user_rating_threshold" validate:"gte=0"`
	ItemRatedThreshold  int    `mapstructure:"item_rated_threshold" validate:"gte=0"`
}

// AdaptiveLevel binds one profile-size bracket to a pair of user-based
// recommendation parameters. MaxRatings == 0 marks the unbounded bracket.
type AdaptiveLevel struct {
	MaxRatings      int     `mapstructure:"max_ratings" validate:"gte=0"`
	OverlapFraction float64 `mapstructure:"overlap_fraction" validate:"gte=0"`
	CorrThreshold   float64 `mapstructure:"corr_threshold" validate:"gte=-1,lte=1"`
}

type RecommendConfig struct {
	DefaultN         int             `mapstructure:"default_n" validate:"gt=0"`
	MaxSearchResults int             `mapstructure:"max_search_results" validate:"gt=0"`
	MinProfileSize   int             `mapstructure:"min_profile_size" validate:"gt=0"`
	MinMatchPercent  int             `mapstructure:"min_match_percent" validate:"gte=0,lte=100"`
	NumSimilarItems  int             `mapstructure:"num_similar_items" validate:"gt=0"`
	Adaptive         []AdaptiveLevel `mapstructure:"adaptive" validate:"min=1,dive"`
}

type ServerConfig struct {
	HttpHost string `mapstructure:"http_host"`
	HttpPort int    `mapstructure:"http_port" validate:"gt=0"`
}

type CacheConfig struct {
	DumpDir string `mapstructure:"dump_dir"`
}

// AdaptiveParams returns the overlap fraction and correlation threshold for a
// profile with ratingCount ratings. Smaller profiles get looser thresholds.
func (c *RecommendConfig) AdaptiveParams(ratingCount int) (overlapFraction, corrThreshold float64) {
	for _, level := range c.Adaptive {
		if level.MaxRatings == 0 || ratingCount <= level.MaxRatings {
			return level.OverlapFraction, level.CorrThreshold
		}
	}
	last := c.Adaptive[len(c.Adaptive)-1]
	return last.OverlapFraction, last.CorrThreshold
}

func setDefault() {
	// [data]
	viper.SetDefault("data.movies_path", "data/movies.csv")
	viper.SetDefault("data.ratings_path", "data/ratings.csv")
	viper.SetDefault("data.database_path", "")
	viper.SetDefault("data.user_rating_threshold", 150)
	viper.SetDefault("data.item_rated_threshold", 5000)
	// [recommend]
	viper.SetDefault("recommend.default_n", 10)
	viper.SetDefault("recommend.max_search_results", 20)
	viper.SetDefault("recommend.min_profile_size", 5)
	viper.SetDefault("recommend.min_match_percent", 20)
	viper.SetDefault("recommend.num_similar_items", 3)
	viper.SetDefault("recommend.adaptive", []map[string]any{
		{"max_ratings": 7, "overlap_fraction": 0.3, "corr_threshold": 0.0},
		{"max_ratings": 12, "overlap_fraction": 0.4, "corr_threshold": 0.2},
		{"max_ratings": 0, "overlap_fraction": 0.5, "corr_threshold": 0.3},
	})
	// [server]
	viper.SetDefault("server.http_host", "127.0.0.1")
	viper.SetDefault("server.http_port", 8087)
	// [cache]
	viper.SetDefault("cache.dump_dir", "dumps")
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	setDefault()
	config := new(Config)
	if err := viper.Unmarshal(config); err != nil {
		panic(err)
	}
	return config
}

// LoadConfig loads the configuration from a TOML file. An empty path returns
// the default configuration.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	config := new(Config)
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}

// Validate checks the configuration against its struct tags.
func (config *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(config)
}
