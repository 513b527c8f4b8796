package internal

import (
	"net/http"

	"livestat/internal/controllers"
	"livestat/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/profiles", http.HandlerFunc(apiController.GetProfiles))
	routers.Post("/profiles/create", http.HandlerFunc(apiController.CreateProfile))
	routers.Post("/profiles/update", http.HandlerFunc(apiController.UpdateProfile))
	routers.Post("/profiles/delete", http.HandlerFunc(apiController.DeleteProfile))
	routers.Get("/profiles/stats", http.HandlerFunc(apiController.GetProfileStats))
	routers.Get("/records", http.HandlerFunc(apiController.GetRecords))
	routers.Post("/records/create", http.HandlerFunc(apiController.AddRecord))
	routers.Post("/records/update", http.HandlerFunc(apiController.UpdateRecord))
	routers.Post("/records/delete", http.HandlerFunc(apiController.DeleteRecord))
	routers.Post("/records/clear", http.HandlerFunc(apiController.ClearRecords))
	routers.Post("/import", http.HandlerFunc(apiController.ImportRows))
	routers.Get("/summary", http.HandlerFunc(apiController.GetSummary))
	return routers
}
