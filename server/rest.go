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

// Package server exposes the recommender over a REST-ful API.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/eray-yuztyurk/movie-recommender-app/base"
	"github.com/eray-yuztyurk/movie-recommender-app/base/log"
	"github.com/eray-yuztyurk/movie-recommender-app/config"
	"github.com/eray-yuztyurk/movie-recommender-app/dataset"
	"github.com/eray-yuztyurk/movie-recommender-app/lookup"
	"github.com/eray-yuztyurk/movie-recommender-app/matrix"
	"github.com/eray-yuztyurk/movie-recommender-app/recommend"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RestServer serves search, similarity and recommendation requests over a
// read-only matrix. Session profiles are the only mutable state.
type RestServer struct {
	Config     *config.Config
	Matrix     *matrix.Matrix
	Dataset    *dataset.Dataset
	Lookup     *lookup.Lookup
	WebService *restful.WebService

	sessionMutex sync.RWMutex
	sessions     map[string]*recommend.Profile
}

// NewRestServer creates a server over a built matrix. The lookup table must
// come from the unreduced dataset so search covers items the matrix dropped.
func NewRestServer(cfg *config.Config, m *matrix.Matrix, d *dataset.Dataset, l *lookup.Lookup) *RestServer {
	return &RestServer{
		Config:     cfg,
		Matrix:     m,
		Dataset:    d,
		Lookup:     l,
		WebService: new(restful.WebService),
		sessions:   make(map[string]*recommend.Profile),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	http.Handle("/metrics", promhttp.Handler())

	address := fmt.Sprintf("%s:%d", s.Config.Server.HttpHost, s.Config.Server.HttpPort)
	log.Logger().Info("start http server", zap.String("url", "http://"+address))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(address, nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)))
}

// CreateWebService registers routes on the web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	ws.Route(ws.GET("/search").To(s.search).
		Doc("Search items by a keyword in their name.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.QueryParameter("q", "keyword").DataType("string")).
		Param(ws.QueryParameter("n", "maximum number of results").DataType("int")).
		Writes([]lookup.Item{}))
	ws.Route(ws.GET("/item/{item-id}").To(s.getItem).
		Doc("Get an item by its identifier.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("int")).
		Writes(lookup.Item{}))
	ws.Route(ws.GET("/item/{item-id}/neighbors").To(s.getItemNeighbors).
		Doc("Get items most correlated with an item.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"item"}).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("int")).
		Param(ws.QueryParameter("n", "number of neighbors").DataType("int")).
		Writes([]SimilarItem{}))
	ws.Route(ws.GET("/user/{user-id}/recommend").To(s.recommendForUser).
		Doc("Recommend items for an existing user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("int")).
		Param(ws.QueryParameter("n", "number of recommendations").DataType("int")).
		Writes([]RecommendedItem{}))
	ws.Route(ws.POST("/session").To(s.createSession).
		Doc("Create a rating session.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"session"}).
		Writes(Session{}))
	ws.Route(ws.PUT("/session/{session-id}/item/{item-id}").To(s.rateItem).
		Doc("Rate an item within a session.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"session"}).
		Param(ws.PathParameter("session-id", "identifier of the session").DataType("string")).
		Param(ws.PathParameter("item-id", "identifier of the item").DataType("int")).
		Param(ws.QueryParameter("rating", "rating on the 1-5 scale").DataType("float")).
		Writes(RatingResult{}))
	ws.Route(ws.DELETE("/session/{session-id}").To(s.deleteSession).
		Doc("Delete a session and its ratings.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"session"}).
		Param(ws.PathParameter("session-id", "identifier of the session").DataType("string")))
	ws.Route(ws.GET("/session/{session-id}/recommend").To(s.recommendForSession).
		Doc("Recommend items for a session profile.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.PathParameter("session-id", "identifier of the session").DataType("string")).
		Param(ws.QueryParameter("n", "number of recommendations").DataType("int")).
		Writes([]RecommendedItem{}))
	ws.Route(ws.GET("/stats").To(s.getStats).
		Doc("Get dataset and matrix statistics.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"status"}).
		Writes(Status{}))
}

// SimilarItem is one neighbor of an item.
type SimilarItem struct {
	ItemId      int
	Name        string
	Correlation float64
}

// RecommendedItem is one entry of a recommendation result.
type RecommendedItem struct {
	ItemId       int
	Name         string
	Score        float64
	MatchPercent int
}

// Session identifies a rating session and reports its profile size.
type Session struct {
	SessionId  string
	NumRatings int
}

// RatingResult acknowledges a rating and carries items similar to the rated
// profile above the match floor.
type RatingResult struct {
	SessionId    string
	NumRatings   int
	SimilarItems []SimilarItem
}

// Status summarizes the loaded data.
type Status struct {
	Stats       dataset.Stats
	MatrixUsers int
	MatrixItems int
	Sparsity    float64
	NumSessions int
}

func (s *RestServer) search(request *restful.Request, response *restful.Response) {
	defer MeasureTime(SearchSeconds)()
	keyword := request.QueryParameter("q")
	if keyword == "" {
		BadRequest(response, errors.Annotatef(base.ErrInvalidInput, "missing keyword"))
		return
	}
	n, err := ParseInt(request, "n", s.Config.Recommend.MaxSearchResults)
	if err != nil {
		BadRequest(response, err)
		return
	}
	// a numeric keyword resolves as an item id first
	if itemId, convErr := strconv.Atoi(keyword); convErr == nil {
		if name, lookupErr := s.Lookup.NameById(itemId); lookupErr == nil {
			Ok(response, []lookup.Item{{Id: itemId, Name: name}})
			return
		}
	}
	items, err := s.Lookup.Search(keyword, n)
	if err != nil {
		BadRequest(response, err)
		return
	}
	Ok(response, items)
}

func (s *RestServer) getItem(request *restful.Request, response *restful.Response) {
	itemId, err := strconv.Atoi(request.PathParameter("item-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	name, err := s.Lookup.NameById(itemId)
	if err != nil {
		PageNotFound(response, err)
		return
	}
	Ok(response, lookup.Item{Id: itemId, Name: name})
}

func (s *RestServer) getItemNeighbors(request *restful.Request, response *restful.Response) {
	defer MeasureTime(ItemBasedRecommendSeconds)()
	itemId, err := strconv.Atoi(request.PathParameter("item-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", s.Config.Recommend.NumSimilarItems)
	if err != nil {
		BadRequest(response, err)
		return
	}
	scores, err := recommend.SimilarItems(s.Matrix, itemId, n)
	if err != nil {
		s.error(response, err)
		return
	}
	neighbors := make([]SimilarItem, 0, len(scores))
	for _, score := range scores {
		name, _ := s.Lookup.NameById(score.Id)
		neighbors = append(neighbors, SimilarItem{ItemId: score.Id, Name: name, Correlation: score.Score})
	}
	Ok(response, neighbors)
}

func (s *RestServer) recommendForUser(request *restful.Request, response *restful.Response) {
	defer MeasureTime(UserBasedRecommendSeconds)()
	userId, err := strconv.Atoi(request.PathParameter("user-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", s.Config.Recommend.DefaultN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	row := s.Matrix.UserRow(userId)
	if row == nil {
		PageNotFound(response, errors.Annotatef(base.ErrUserNotExist, "id %d", userId))
		return
	}
	overlapFraction, corrThreshold := s.Config.Recommend.AdaptiveParams(row.Len())
	table, _, err := recommend.RecommendForUser(s.Matrix, userId, overlapFraction, corrThreshold)
	if err != nil {
		s.error(response, err)
		return
	}
	if table.Empty() {
		Ok(response, []RecommendedItem{})
		return
	}
	recommendations, err := table.Mean(n)
	if err != nil {
		s.error(response, err)
		return
	}
	Ok(response, s.decorate(recommendations))
}

func (s *RestServer) createSession(_ *restful.Request, response *restful.Response) {
	sessionId := uuid.NewString()
	s.sessionMutex.Lock()
	s.sessions[sessionId] = recommend.NewProfile()
	s.sessionMutex.Unlock()
	ActiveSessionsGauge.Inc()
	Ok(response, Session{SessionId: sessionId})
}

func (s *RestServer) rateItem(request *restful.Request, response *restful.Response) {
	itemId, err := strconv.Atoi(request.PathParameter("item-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	rating, err := strconv.ParseFloat(request.QueryParameter("rating"), 64)
	if err != nil {
		BadRequest(response, err)
		return
	}
	if _, err = s.Lookup.NameById(itemId); err != nil {
		PageNotFound(response, err)
		return
	}
	sessionId := request.PathParameter("session-id")
	s.sessionMutex.Lock()
	defer s.sessionMutex.Unlock()
	profile, exist := s.sessions[sessionId]
	if !exist {
		PageNotFound(response, errors.NotFoundf("session %q", sessionId))
		return
	}
	if err = profile.Set(itemId, rating); err != nil {
		BadRequest(response, err)
		return
	}
	scores, err := recommend.SimilarToProfile(s.Matrix, profile,
		s.Config.Recommend.NumSimilarItems, s.Config.Recommend.MinMatchPercent)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	teasers := make([]SimilarItem, 0, len(scores))
	for _, score := range scores {
		name, _ := s.Lookup.NameById(score.Id)
		teasers = append(teasers, SimilarItem{ItemId: score.Id, Name: name, Correlation: score.Score})
	}
	Ok(response, RatingResult{
		SessionId:    sessionId,
		NumRatings:   profile.Len(),
		SimilarItems: teasers,
	})
}

func (s *RestServer) deleteSession(request *restful.Request, response *restful.Response) {
	sessionId := request.PathParameter("session-id")
	s.sessionMutex.Lock()
	defer s.sessionMutex.Unlock()
	if _, exist := s.sessions[sessionId]; !exist {
		PageNotFound(response, errors.NotFoundf("session %q", sessionId))
		return
	}
	delete(s.sessions, sessionId)
	ActiveSessionsGauge.Dec()
	Ok(response, Session{SessionId: sessionId})
}

func (s *RestServer) recommendForSession(request *restful.Request, response *restful.Response) {
	defer MeasureTime(SessionRecommendSeconds)()
	n, err := ParseInt(request, "n", s.Config.Recommend.DefaultN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	sessionId := request.PathParameter("session-id")
	s.sessionMutex.RLock()
	profile, exist := s.sessions[sessionId]
	s.sessionMutex.RUnlock()
	if !exist {
		PageNotFound(response, errors.NotFoundf("session %q", sessionId))
		return
	}
	recommendations, err := recommend.Personalized(s.Matrix, profile, &s.Config.Recommend, n)
	if err != nil {
		s.error(response, err)
		return
	}
	Ok(response, s.decorate(recommendations))
}

func (s *RestServer) getStats(_ *restful.Request, response *restful.Response) {
	s.sessionMutex.RLock()
	numSessions := len(s.sessions)
	s.sessionMutex.RUnlock()
	Ok(response, Status{
		Stats:       s.Dataset.Stats(),
		MatrixUsers: s.Matrix.CountUsers(),
		MatrixItems: s.Matrix.CountItems(),
		Sparsity:    s.Matrix.Sparsity(),
		NumSessions: numSessions,
	})
}

func (s *RestServer) decorate(recommendations []recommend.Recommendation) []RecommendedItem {
	items := make([]RecommendedItem, 0, len(recommendations))
	for _, r := range recommendations {
		name, _ := s.Lookup.NameById(r.ItemId)
		items = append(items, RecommendedItem{
			ItemId:       r.ItemId,
			Name:         name,
			Score:        r.Score,
			MatchPercent: r.MatchPercent,
		})
	}
	return items
}

func (s *RestServer) error(response *restful.Response, err error) {
	switch {
	case errors.Is(err, errors.NotFound):
		PageNotFound(response, err)
	case errors.Is(err, base.ErrInvalidInput),
		errors.Is(err, base.ErrEmptyProfile),
		errors.Is(err, base.ErrInsufficientProfile):
		BadRequest(response, err)
	default:
		InternalServerError(response, err)
	}
}

// ParseInt parses an integer query parameter, falling back to a default when
// the parameter is absent.
func ParseInt(request *restful.Request, name string, fallback int) (int, error) {
	value := request.QueryParameter(name)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

// MeasureTime observes the elapsed time of a handler.
func MeasureTime(histogram prometheus.Histogram) func() {
	start := time.Now()
	return func() {
		histogram.Observe(time.Since(start).Seconds())
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.Logger().Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.Logger().Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusNotFound, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
