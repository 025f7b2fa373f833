// Command clispy is the REPL/script entry point: no arguments reads
// expressions from stdin, one argument reads them from that file.
// Grounded on cmd/hivectl/root.go's rootCmd/execute()/printError shape,
// trimmed to a single command — spec.md's CLI surface has no subcommands
// to register.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sck/clispy-go/internal/interp"
)

var rootCmd = &cobra.Command{
	Use:   "clispy [file]",
	Short: "A minimal Scheme interpreter over a single mapped cell arena",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.SetVersionTemplate("clispy {{.Version}}\n")
	rootCmd.Version = "0.1.0"
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "clispy: "+format, args...)
}

func run(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	interactive := isatty.IsTerminal(os.Stdin.Fd())

	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		interactive = false
	}

	ip, err := interp.New(0)
	if err != nil {
		return err
	}
	defer ip.Close()

	repl(ip, in, interactive)
	return nil
}

// repl mirrors cl_repl's loop shape: print a startup banner only in
// interactive mode, then read one line, evaluate it, print "-> <result>"
// only in interactive mode, sweep once per iteration regardless of
// interactivity.
func repl(ip *interp.Interp, in *os.File, interactive bool) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if interactive {
		fmt.Printf("clispy %s\n", rootCmd.Version)
	}

	for {
		if interactive {
			fmt.Print("clispy> ")
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()

		result, err := ip.EvalLine(line)
		if err != nil {
			printError("%v\n", err)
		} else if interactive {
			fmt.Printf("-> %s\n", ip.ToString(result))
		}

		if _, err := ip.Sweep(); err != nil {
			printError("%v\n", err)
		}
	}
}

func main() {
	execute()
}
