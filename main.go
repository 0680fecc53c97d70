package main

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/nexusdev/groupguard/cmd"
)

func main() {
	cmd.Execute()
}
