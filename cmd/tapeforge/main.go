// Command tapeforge is the CLI front end. It selects a mode, reads the
// source file, and hands it to the front end and one of the two
// execution engines.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"tapeforge/internal/interp"
	"tapeforge/internal/ioport"
	"tapeforge/internal/jit"
	"tapeforge/internal/lexer"
	"tapeforge/internal/opcode"
	"tapeforge/internal/optimizer"
)

const version = "0.1.0"

var commandAliases = map[string]string{
	"r": "run",
	"j": "jit",
	"d": "dump",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "help", "--help", "-h":
		showUsage()
	case "version", "--version", "-v":
		fmt.Println("tapeforge " + version)
	case "run":
		runCommand(args[1:], false)
	case "jit":
		runCommand(args[1:], true)
	case "dump":
		dumpCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`tapeforge: a tape-language toolchain

Usage:
  tapeforge run [-verbose] <file>    interpret a program
  tapeforge jit [-verbose] <file>    JIT-compile and run a program
  tapeforge dump <file>              print the finalized instruction stream
  tapeforge version
  tapeforge help`)
}

func runCommand(args []string, useJIT bool) {
	verbose, file := parseRunArgs(args)
	stream := compileOrExit(file)

	port := ioport.New()
	defer port.Flush()

	if !useJIT {
		m := interp.NewMachine()
		m.Run(stream, port)
		return
	}

	var verboseOut io.Writer
	if verbose {
		verboseOut = os.Stderr
	}
	program, err := jit.Compile(stream, port, verboseOut)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer program.Release()

	var tape [opcode.Tape]byte
	program.Run(&tape)
}

func dumpCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tapeforge dump <file>")
		os.Exit(1)
	}
	stream := compileOrExit(args[0])
	fmt.Print(stream.String())
}

func parseRunArgs(args []string) (verbose bool, file string) {
	for _, a := range args {
		if a == "-verbose" {
			verbose = true
			continue
		}
		file = a
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: tapeforge run|jit [-verbose] <file>")
		os.Exit(1)
	}
	return verbose, file
}

func compileOrExit(file string) opcode.Stream {
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tokens := lexer.Scan(string(source))
	stream, err := optimizer.Optimize(tokens)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return stream
}

func printError(err error) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\033[31m%v\033[0m\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
