package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// Ignores SIGTERM so the caller has to escalate to SIGKILL.
func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if path := os.Getenv("SCHAT_PID_FILE"); path != "" {
		_ = os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
	}
	fmt.Println("Bad Citizen (Ignore) Started")

	go func() {
		for s := range sigs {
			fmt.Fprintf(os.Stderr, "Ignoring signal: %v\n", s)
		}
	}()

	for {
		time.Sleep(1 * time.Second)
	}
}
