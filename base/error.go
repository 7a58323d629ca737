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

package base

import "github.com/juju/errors"

var (
	// ErrUserNotExist is returned when a user id is not a row of the matrix.
	ErrUserNotExist = errors.NotFoundf("user")
	// ErrItemNotExist is returned when an item id is not a column of the matrix
	// or a name cannot be resolved.
	ErrItemNotExist = errors.NotFoundf("item")
	// ErrEmptyProfile is returned when an operation requires at least one rating.
	ErrEmptyProfile = errors.New("profile has no ratings")
	// ErrInsufficientProfile is returned when a profile has fewer ratings than
	// the configured minimum for personalized recommendation.
	ErrInsufficientProfile = errors.New("profile has too few ratings")
	// ErrInvalidInput is returned for malformed ids and non-positive counts.
	ErrInvalidInput = errors.New("invalid input")
)
