// Package docs EV Spark Hub API.
//
// Бэкенд приложения EV Spark Hub: поиск зарядных станций для электромобилей
// по нескольким источникам, бронирование слотов, mock UPI оплата и Spark Coins.
//
//	Schemes: http, https
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- BearerAuth:
//
//	SecurityDefinitions:
//	BearerAuth:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
