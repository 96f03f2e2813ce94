package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func runClient(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "client.log")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCommand(t *testing.T) {
	var got map[string]interface{}
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"prediction":"Negative","probability":[0.875,0.125]}`)
	}))
	defer srv.Close()

	out, err := runClient(t, "--base-url", srv.URL, "--model", "GradientBoosting", "predict",
		"--prg", "2", "--pl", "130", "--pr", "70", "--sk", "20", "--ts", "85",
		"--m11", "28.5", "--bd2", "0.4", "--age", "45", "--insurance", "1")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if path != "/predict/GradientBoosting" {
		t.Fatalf("unexpected path %s", path)
	}
	if got["M11"] != 28.5 || got["Insurance"] != float64(1) {
		t.Fatalf("unexpected payload %v", got)
	}
	for _, s := range []string{"Sepsis test will be Negative", "12.5% chance of Patient developing Sepsis."} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %q:\n%s", s, out)
		}
	}
}

func TestPredictCommandReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"model is not configured: \"XGBoost\""}`)
	}))
	defer srv.Close()

	_, err := runClient(t, "--base-url", srv.URL, "--model", "XGBoost", "predict")
	if err == nil || !strings.HasPrefix(err.Error(), "Error: 404 - ") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestPredictCommandRejectsFractionalInteger(t *testing.T) {
	_, err := runClient(t, "--base-url", "http://127.0.0.1:1", "predict", "--age", "45.5")
	if err == nil || !strings.Contains(err.Error(), "--age") {
		t.Fatalf("expected flag error, got %v", err)
	}
}
