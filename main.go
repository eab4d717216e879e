package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"postboard/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to a subcommand.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("postboard version %s\n", CliVersion)
	case "serve":
		err := service.RunAppServer(os.Args[2:])
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err != nil {
			log.Printf("serve: %v", err)
			exit(1)
		}
	case "db":
		if code := service.HandleCommand(os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: postboard <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [flags]                  Run the posts service (see serve -h for flags).
  db <init|backup|restore|clean> Manage the local Badger database.
`
	fmt.Println(helpText)
}
