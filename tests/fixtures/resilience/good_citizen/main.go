package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// Writes partial output, then exits promptly once it receives SIGTERM.
func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	writePID()
	fmt.Println("partial answer")
	fmt.Fprintln(os.Stderr, "Good Citizen Started")

	select {
	case sig := <-sigs:
		fmt.Fprintf(os.Stderr, "Received signal: %s\n", sig)
		os.Exit(0)
	case <-time.After(30 * time.Second):
		fmt.Println("Finished work (too late)")
	}
}

func writePID() {
	if path := os.Getenv("SCHAT_PID_FILE"); path != "" {
		_ = os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
	}
}
