package schat_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
)

// upperInvoker stands in for an agent CLI.
type upperInvoker struct{}

func (upperInvoker) Invoke(ctx context.Context, prompt string, newSession bool) domain.InvokeResult {
	return domain.InvokeResult{
		Text:      fmt.Sprintf("%s (new session: %v)", strings.ToUpper(prompt), newSession),
		Succeeded: true,
	}
}

// Example_conversation shows the two-phase submission of the session controller.
// In a real program the invoker is an *agent.Invoker built from a provider.
func Example_conversation() {
	ctx := context.Background()
	controller := session.NewController(upperInvoker{})

	for _, prompt := range []string{"hello", "   ", "again"} {
		ticket, err := controller.Submit(ctx, prompt)
		if err != nil {
			fmt.Println("rejected:", err)
			continue
		}
		ex, err := ticket.Wait(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("#%d %s\n", ex.ID, ex.Response)
	}

	// Output:
	// #0 HELLO (new session: true)
	// rejected: prompt is empty
	// #1 AGAIN (new session: false)
}
