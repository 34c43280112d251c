package main

import (
	"log"

	"github.com/psds-microservice/chatbot-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
