package chatwidget

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"
)

// Asker performs one question/answer exchange. hasAnswer reports whether the
// reply actually carried an answer; a response of any other shape is "no
// answer", not a failure. err is reserved for transport-level problems.
type Asker interface {
	Ask(ctx context.Context, question string) (answer string, hasAnswer bool, err error)
}

type askPayload struct {
	Question string `json:"question"`
}

type askReply struct {
	Answer string `json:"answer"`
}

// HTTPAsker posts to the server's /ask endpoint. Any HTTP status with a JSON
// body resolves normally; only unreachable servers and undecodable bodies
// count as transport failures.
type HTTPAsker struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAsker(baseURL string, client *http.Client) *HTTPAsker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAsker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (a *HTTPAsker) Ask(ctx context.Context, question string) (string, bool, error) {
	body, err := jsoniter.Marshal(askPayload{Question: question})
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}

	var reply askReply
	if err := jsoniter.Unmarshal(raw, &reply); err != nil {
		return "", false, fmt.Errorf("undecodable reply: %w", err)
	}

	if reply.Answer == "" {
		return "", false, nil
	}
	return reply.Answer, true, nil
}
