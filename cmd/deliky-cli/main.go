package main

import (
	"deliky-backend/cmd/deliky-cli/commands"
	"deliky-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.Execute()
}
