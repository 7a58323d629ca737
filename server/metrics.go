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

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movierec",
		Subsystem: "server",
		Name:      "search_seconds",
	})
	ItemBasedRecommendSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movierec",
		Subsystem: "server",
		Name:      "item_based_recommend_seconds",
	})
	UserBasedRecommendSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movierec",
		Subsystem: "server",
		Name:      "user_based_recommend_seconds",
	})
	SessionRecommendSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "movierec",
		Subsystem: "server",
		Name:      "session_recommend_seconds",
	})
	ActiveSessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "movierec",
		Subsystem: "server",
		Name:      "active_sessions",
	})
)
