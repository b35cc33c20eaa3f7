package chatwidget

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestHTTPAskerPostsQuestion(t *testing.T) {
	var gotPath, gotQuestion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		var payload askPayload
		if err := jsoniter.Unmarshal(body, &payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		gotQuestion = payload.Question

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"answer":"42"}`)
	}))
	defer server.Close()

	asker := NewHTTPAsker(server.URL, server.Client())
	answer, hasAnswer, err := asker.Ask(context.Background(), "what is the answer")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if gotPath != "/ask" {
		t.Fatalf("posted to %s, want /ask", gotPath)
	}
	if gotQuestion != "what is the answer" {
		t.Fatalf("sent question %q", gotQuestion)
	}
	if !hasAnswer || answer != "42" {
		t.Fatalf("got answer=%q hasAnswer=%v", answer, hasAnswer)
	}
}

func TestHTTPAskerEmptyAnswerIsNotAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	asker := NewHTTPAsker(server.URL, server.Client())
	answer, hasAnswer, err := asker.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("empty answer should not error: %v", err)
	}
	if hasAnswer || answer != "" {
		t.Fatalf("got answer=%q hasAnswer=%v, want no answer", answer, hasAnswer)
	}
}

func TestHTTPAskerErrorStatusWithBodyStillResolves(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"question contains inappropriate content"}`)
	}))
	defer server.Close()

	asker := NewHTTPAsker(server.URL, server.Client())
	_, hasAnswer, err := asker.Ask(context.Background(), "blocked")
	if err != nil {
		t.Fatalf("decodable error body should not be a transport failure: %v", err)
	}
	if hasAnswer {
		t.Fatal("error reply should carry no answer")
	}
}

func TestHTTPAskerUnreachableServerFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	asker := NewHTTPAsker(server.URL, nil)
	if _, _, err := asker.Ask(context.Background(), "q"); err == nil {
		t.Fatal("expected a transport error from a closed server")
	}
}

func TestHTTPAskerUndecodableBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>gateway timeout</html>")
	}))
	defer server.Close()

	asker := NewHTTPAsker(server.URL, server.Client())
	if _, _, err := asker.Ask(context.Background(), "q"); err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
}
