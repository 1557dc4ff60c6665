package main

import (
	"github.com/joho/godotenv"

	"github.com/sarchlab/runid/cmd/runid/cmd"
)

func main() {
	// A .env file can seed RUNID_STRESS_* defaults; its absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
