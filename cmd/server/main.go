package main

import (
	"os"

	"relaychat/backend/internal/app"
)

// @title           relaychat API
// @version         1.0
// @description     Streams chat completions from a hosted LLM provider over Server-Sent Events.
// @host            localhost:8000
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
