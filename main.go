package main

import (
	"github.com/jalexanderII/zero-todos/app"
)

// @title Zero Todos API
// @version 0.1
// @description Personal task tracking backend.
// @contact.name Joel Alexander
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
