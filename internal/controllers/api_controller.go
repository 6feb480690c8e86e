package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"milktracker/internal/models"
	"milktracker/internal/providers"
	"milktracker/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger   providers.Logger
	session  services.SessionServiceInterface
	memories services.MemoriesServiceInterface
	cache    providers.CacheProviderInterface
	metrics  providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, session services.SessionServiceInterface, memories services.MemoriesServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:   logger,
		session:  session,
		memories: memories,
		cache:    cache,
		metrics:  metrics,
	}
}

type mealPayload struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type vitaminsPayload struct {
	Subject string `json:"subject"`
}

type memoryPayload struct {
	Index       int    `json:"index"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type ongoingResponse struct {
	Ongoing bool                        `json:"ongoing"`
	Meal    *models.OngoingMealSnapshot `json:"meal,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (ac *ApiController) render(w http.ResponseWriter, status int, result any) {
	gson, err := json.Marshal(result)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) fail(w http.ResponseWriter, action string, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypePost, "Action %s failed: %s", action, err)
		ac.render(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}
	ac.logger.Warnf(providers.TypePost, "Action %s rejected: %s", action, err)
	ac.render(w, status, errorResponse{Error: err.Error()})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() any) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	gson, err := json.Marshal(compute())
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Encode %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// decode reads an optional JSON body into dst. An empty body leaves dst as is.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// act runs a mutating action and answers with the refreshed computed values.
func (ac *ApiController) act(w http.ResponseWriter, action string, status int, do func() error) {
	start := time.Now()
	err := do()
	ac.metrics.ObserveActionDuration(action, time.Since(start))
	if err != nil {
		ac.metrics.IncActionErrors(action)
		ac.fail(w, action, err)
		return
	}
	ac.render(w, status, ac.session.Computed())
}

func (ac *ApiController) GetMeals(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		limit = n
	}
	key := "meals:" + strconv.FormatUint(ac.session.Version(), 10) + ":" + strconv.Itoa(limit)
	ac.serveFromCacheOrCompute(w, key, func() any {
		return ac.session.Meals(limit)
	})
}

func (ac *ApiController) GetSummary(w http.ResponseWriter, r *http.Request) {
	key := "summary:" + strconv.FormatUint(ac.session.Version(), 10)
	ac.serveFromCacheOrCompute(w, key, func() any {
		return ac.session.Summary()
	})
}

func (ac *ApiController) GetComputed(w http.ResponseWriter, r *http.Request) {
	ac.render(w, http.StatusOK, ac.session.Computed())
}

func (ac *ApiController) GetOngoing(w http.ResponseWriter, r *http.Request) {
	snap, ok := ac.session.OngoingMeal()
	resp := ongoingResponse{Ongoing: ok}
	if ok {
		resp.Meal = &snap
	}
	ac.render(w, http.StatusOK, resp)
}

func (ac *ApiController) GetMemories(w http.ResponseWriter, r *http.Request) {
	key := "memories:" + strconv.FormatUint(ac.memories.Version(), 10)
	ac.serveFromCacheOrCompute(w, key, func() any {
		return ac.memories.Memories()
	})
}

func (ac *ApiController) FinishMeal(w http.ResponseWriter, r *http.Request) {
	var p mealPayload
	if !decode(w, r, &p) {
		return
	}
	ac.act(w, "finish_meal", http.StatusCreated, func() error {
		return ac.session.FinishMeal(p.Date, p.StartTime, p.EndTime)
	})
}

func (ac *ApiController) StartMeal(w http.ResponseWriter, r *http.Request) {
	var p mealPayload
	if !decode(w, r, &p) {
		return
	}
	ac.act(w, "start_meal", http.StatusCreated, func() error {
		return ac.session.StartMeal(p.Date, p.StartTime)
	})
}

func (ac *ApiController) PauseRound(w http.ResponseWriter, r *http.Request) {
	ac.act(w, "pause_round", http.StatusOK, ac.session.PauseRound)
}

func (ac *ApiController) StartNewRound(w http.ResponseWriter, r *http.Request) {
	ac.act(w, "start_new_round", http.StatusOK, ac.session.StartNewRound)
}

func (ac *ApiController) CancelMeal(w http.ResponseWriter, r *http.Request) {
	ac.act(w, "cancel_meal", http.StatusOK, ac.session.CancelMeal)
}

func (ac *ApiController) DeleteLatestMeal(w http.ResponseWriter, r *http.Request) {
	ac.act(w, "delete_latest_meal", http.StatusOK, ac.session.DeleteLatestMeal)
}

func (ac *ApiController) ConfirmVitamins(w http.ResponseWriter, r *http.Request) {
	var p vitaminsPayload
	if !decode(w, r, &p) {
		return
	}
	ac.act(w, "confirm_vitamins", http.StatusOK, func() error {
		return ac.session.ConfirmVitamins(p.Subject)
	})
}

func (ac *ApiController) memoryAction(w http.ResponseWriter, r *http.Request, action string, status int, do func(memoryPayload) error) {
	p := memoryPayload{Index: -1}
	if !decode(w, r, &p) {
		return
	}
	start := time.Now()
	err := do(p)
	ac.metrics.ObserveActionDuration(action, time.Since(start))
	if err != nil {
		ac.metrics.IncActionErrors(action)
		ac.fail(w, action, err)
		return
	}
	ac.render(w, status, ac.memories.Memories())
}

func (ac *ApiController) AddMemory(w http.ResponseWriter, r *http.Request) {
	ac.memoryAction(w, r, "add_memory", http.StatusCreated, func(p memoryPayload) error {
		return ac.memories.AddMemory(p.Date, p.Description)
	})
}

func (ac *ApiController) EditMemory(w http.ResponseWriter, r *http.Request) {
	ac.memoryAction(w, r, "edit_memory", http.StatusOK, func(p memoryPayload) error {
		return ac.memories.EditMemory(p.Index, p.Date, p.Description)
	})
}

func (ac *ApiController) RemoveMemory(w http.ResponseWriter, r *http.Request) {
	ac.memoryAction(w, r, "remove_memory", http.StatusOK, func(p memoryPayload) error {
		return ac.memories.RemoveMemory(p.Index)
	})
}
