// Command stocks manages a portfolio of purchase lots from the terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&addCmd{}, "lots")
	commander.Register(&removeCmd{}, "lots")
	commander.Register(&setCmd{}, "lots")
	commander.Register(&deleteCmd{}, "lots")

	commander.Register(&listCmd{}, "reports")
	commander.Register(&profitCmd{}, "reports")
	commander.Register(&reportCmd{}, "reports")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
