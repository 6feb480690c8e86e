package internal

import (
	"net/http"

	"milktracker/internal/controllers"
	"milktracker/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/meals", http.HandlerFunc(apiController.GetMeals))
	routers.Post("/meals", http.HandlerFunc(apiController.FinishMeal))
	routers.Post("/meals/start", http.HandlerFunc(apiController.StartMeal))
	routers.Post("/meals/pause", http.HandlerFunc(apiController.PauseRound))
	routers.Post("/meals/resume", http.HandlerFunc(apiController.StartNewRound))
	routers.Post("/meals/cancel", http.HandlerFunc(apiController.CancelMeal))
	routers.Post("/meals/delete-latest", http.HandlerFunc(apiController.DeleteLatestMeal))
	routers.Get("/summary", http.HandlerFunc(apiController.GetSummary))
	routers.Get("/computed", http.HandlerFunc(apiController.GetComputed))
	routers.Get("/ongoing", http.HandlerFunc(apiController.GetOngoing))
	routers.Post("/vitamins", http.HandlerFunc(apiController.ConfirmVitamins))
	routers.Get("/memories", http.HandlerFunc(apiController.GetMemories))
	routers.Post("/memories", http.HandlerFunc(apiController.AddMemory))
	routers.Post("/memories/edit", http.HandlerFunc(apiController.EditMemory))
	routers.Post("/memories/remove", http.HandlerFunc(apiController.RemoveMemory))
	return routers
}
