// @title           Job Board API
// @version         1.0
// @description     Hiring pipeline, company credits and subscriptions.
// @contact.name    Job Board Support
// @contact.email   support@jobboard.local
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import (
	_ "jobboard_backend/docs"
	"jobboard_backend/internal/app"
)

func main() {
	app.Run()
}
