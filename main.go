package main

import (
	"log"

	"github.com/joho/godotenv"

	"hotel-booking-api/commands"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	commands.Execute()
}
