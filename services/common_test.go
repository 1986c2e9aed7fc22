package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" || r.Header.Get("X-Task") != "7" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["queue"] != "diet-trend" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	got, err := HttpRequest(http.MethodPost, server.URL, map[string]string{"X-Task": "7"}, map[string]string{"queue": "diet-trend"})
	if err != nil || string(got) != `{"ok":true}` {
		t.Fatalf("unexpected response %q, %v", got, err)
	}

	if _, err := HttpRequest(http.MethodPost, server.URL, nil, nil); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
