package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
)

// mockCompletionServer serves a fixed chat completion whose message content is content
func mockCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "agent_response") {
			t.Errorf("Expected the request to carry the response schema, got %s", body)
		}

		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestInterpretUserQuery(t *testing.T) {
	server := mockCompletionServer(t, `{"command_name":"AdjustPH","parameter":"","value":0,"current":6.8,"target":7.2,"ammonia":0,"nitrite":0,"nitrate":0,"length":0,"width":0,"height":0,"unit":"","shape":"","user_message":"Let's raise that pH."}`)
	defer server.Close()

	svc, err := NewOpenAIService("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	resp, err := svc.InterpretUserQuery(context.Background(), "my ph is 6.8, I want 7.2")
	if err != nil {
		t.Fatalf("InterpretUserQuery failed: %v", err)
	}
	if resp.CommandName != CommandAdjustPH || resp.Current != 6.8 || resp.Target != 7.2 {
		t.Errorf("Unexpected agent response: %+v", resp)
	}
}

func TestInterpretUserQueryEmptyChoice(t *testing.T) {
	server := mockCompletionServer(t, "")
	defer server.Close()

	svc, err := NewOpenAIService("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	if _, err := svc.InterpretUserQuery(context.Background(), "hello"); err == nil {
		t.Fatal("Expected an error for an empty completion")
	}
}

func TestNewOpenAIServiceRequiresKey(t *testing.T) {
	if _, err := NewOpenAIService(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestParseAgentResponse(t *testing.T) {
	resp, err := ParseAgentResponse(` {"command_name":"GeneralQuery","user_message":"Hi!"} `)
	if err != nil {
		t.Fatalf("ParseAgentResponse failed: %v", err)
	}
	if resp.CommandName != CommandGeneralQuery || resp.UserMessage != "Hi!" {
		t.Errorf("Unexpected response: %+v", resp)
	}

	if _, err := ParseAgentResponse("not json"); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
}
