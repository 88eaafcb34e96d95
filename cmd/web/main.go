package main

import "loadlink_backend/internal/app"

func main() {
	app.Run()
}
