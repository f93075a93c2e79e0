// Command fakeagent stands in for an agent CLI in tests.
//
// It echoes the argument list it received, one per line, prefixed with "arg: ".
// The last argument is the prompt; prompts containing "fail" exit 1 with
// "bad arg" on stderr, prompts containing "slow" sleep for 10 seconds, and
// prompts containing "silent" produce no output.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	args := os.Args[1:]
	prompt := ""
	if len(args) > 0 {
		prompt = args[len(args)-1]
	}

	switch {
	case strings.Contains(prompt, "fail"):
		fmt.Fprintln(os.Stderr, "bad arg")
		os.Exit(1)
	case strings.Contains(prompt, "slow"):
		time.Sleep(10 * time.Second)
	case strings.Contains(prompt, "silent"):
		return
	}

	for _, a := range args {
		fmt.Printf("arg: %s\n", a)
	}
}
