// @title           Iskort API
// @version         1.0
// @description     API маркетплейса Iskort: заведения, жильё, отзывы и проверка администратором.
// @contact.name    Iskort
// @contact.email   support@iskort.kz
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import "iskort_backend/internal/app"

func main() {
	app.Run()
}
