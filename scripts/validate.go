package main

import (
	"flag"
	"log"

	"hotdesk/internal/validation"
)

func main() {
	var baseURL string
	var userID string
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "Base URL for API validation")
	flag.StringVar(&userID, "user", "U001", "User ID to act as")
	flag.Parse()

	log.Printf("Starting API validation against: %s", baseURL)

	validator := validation.NewSmokeValidator(baseURL, userID)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("❌ Проверка не пройдена: %v", err)
	}

	log.Println("✅ Проверка успешно пройдена!")
}
