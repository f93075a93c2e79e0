package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
)

// NewSessionCommand resets the conversation when sent as a line in headless mode.
const NewSessionCommand = "/new"

// Lines longer than the input limit still reach the controller, which rejects them.
const maxLineSize = 1024 * 1024

// RunHeadless treats every line of r as one prompt and writes each response
// to w, followed by a blank line. Empty lines are skipped. It returns when r
// is exhausted or ctx is done.
func RunHeadless(ctx context.Context, controller *session.Controller, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("input error: %w", err)
					}
				default:
				}
				return nil
			}
			line = l
		}

		if strings.TrimSpace(line) == NewSessionCommand {
			if err := controller.Reset(ctx); err != nil {
				return err
			}
			continue
		}

		ticket, err := controller.Submit(ctx, line)
		if errors.Is(err, domain.ErrEmptyPrompt) {
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "%s%v\n\n", session.ErrorPrefix, err)
			continue
		}

		ex, err := ticket.Wait(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n\n", ex.Response)
	}
}
