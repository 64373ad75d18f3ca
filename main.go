package main

import (
	"log/slog"
	"os"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/command"
	"github.com/Trai60/Reddit-to-Discord-Bot/handlers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	commands := make([]bot.Command, len(command.AllCommands))
	for i, cmd := range command.AllCommands {
		commands[i] = cmd
	}

	bot.Run(handlers.Register, commands)
}
