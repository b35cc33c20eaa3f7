package main

import (
	"ServiceBot/pkg/chatwidget"
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "base URL of the ServiceBot server")
	timeout := flag.Duration("timeout", 30*time.Second, "per-question request timeout")
	flag.Parse()

	transcript := chatwidget.NewTranscript(func(msg chatwidget.Message) {
		label := "you"
		if msg.Sender == chatwidget.SenderBot {
			label = "bot"
		}
		fmt.Printf("[%s] %s\n", label, msg.Text)
	})

	asker := chatwidget.NewHTTPAsker(*serverURL, &http.Client{Timeout: *timeout})
	controller := chatwidget.NewController(asker, transcript)

	fmt.Println("ServiceBot terminal widget. Type a question, or /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "/quit" {
			break
		}

		if _, ok := controller.Submit(context.Background(), line); !ok {
			continue
		}

		// One exchange at a time keeps the terminal readable; the controller
		// itself supports overlapping submissions.
		controller.Wait()
	}

	controller.Wait()
}
