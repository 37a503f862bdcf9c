package boomproxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/steinfletcher/apitest"
)

func TestChatProxy(t *testing.T) {
	var calls int
	var gotAuth, gotPath, gotBody, gotCookie string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		gotPath = r.URL.Path
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer upstream.Close()

	target, _ := url.Parse(upstream.URL + "/v1/chat/completions")
	handler := AsHandler(context.Background(), target, "upstream-key")

	apitest.Handler(handler).
		Post(ChatPath).
		Header("Authorization", "Bearer caller-token").
		Header("Cookie", "a=b").
		JSON(`{"model":"x","messages":[]}`).
		Expect(t).
		Status(http.StatusCreated).
		Body(`{"ok":true}`).
		Header("Access-Control-Allow-Origin", "*").
		End()

	if calls != 1 {
		t.Fatal("Upstream should have been called once, got", calls)
	}
	if gotAuth != "Bearer upstream-key" {
		t.Fatalf("Caller credentials leaked or upstream key missing: %q", gotAuth)
	}
	if gotCookie != "" {
		t.Fatalf("Cookies should not be forwarded: %q", gotCookie)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("Unexpected upstream path: %v", gotPath)
	}
	if gotBody != `{"model":"x","messages":[]}` {
		t.Fatalf("Body should be forwarded verbatim: %v", gotBody)
	}
}

func TestPreflight(t *testing.T) {
	target, _ := url.Parse("http://127.0.0.1:1/unused")
	handler := AsHandler(context.Background(), target, "")
	apitest.Handler(handler).
		Method(http.MethodOptions).
		URL(ChatPath).
		Expect(t).
		Status(http.StatusOK).
		Header("Access-Control-Allow-Methods", corsAllowedMethods).
		Header("Access-Control-Allow-Headers", corsAllowedHeaders).
		End()
}

func TestUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target, _ := url.Parse(upstream.URL)
	upstream.Close()
	handler := AsHandler(context.Background(), target, "")
	apitest.Handler(handler).
		Post(ChatPath).
		JSON(`{}`).
		Expect(t).
		Status(http.StatusBadGateway).
		Body(`{"error":"Proxy error."}`).
		End()
}

func TestKeyFromEnv(t *testing.T) {
	env := map[string]string{UpstreamKeyEnvVar: "k"}
	key := KeyFromEnv(UpstreamKeyEnvVar, func(k string) string { return env[k] }, func(k, v string) error {
		env[k] = v
		return nil
	})
	if key != "k" {
		t.Fatal("Unexpected key", key)
	}
	if env[UpstreamKeyEnvVar] != "" {
		t.Fatal("reading the key should remove it from the environment")
	}
}
