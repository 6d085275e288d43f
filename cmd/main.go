package main

import (
	"log"
	"os"

	"ar-quiz-service/internal/cli"
)

func main() {
	log.SetPrefix("ar-quiz ")
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
