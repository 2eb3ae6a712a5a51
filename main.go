package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/lets-assist/api/cmd/app"
)

// @contact.name   Let's Assist Support
// @contact.email  support@lets-assist.com
//
// @license.name  MIT
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
