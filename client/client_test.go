package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sepsisguard/schema"
)

var scenario = schema.FeatureVector{PRG: 2, PL: 130, PR: 70, SK: 20, TS: 85, M11: 28.5, BD2: 0.4, Age: 45, Insurance: 1}

func TestPredictSendsNineFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/predict/LogisticRegression" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content-type %s", ct)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		if len(body) != 9 || body["M11"] != 28.5 || body["Age"] != float64(45) {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"prediction":"Positive","probability":[0.2,0.8]}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := c.Predict(context.Background(), "LogisticRegression", scenario)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if resp.Prediction != "Positive" || len(resp.Probability) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPredictEscapesModelName(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		io.WriteString(w, `{"prediction":"Negative","probability":null}`)
	}))
	defer srv.Close()

	c, _ := New(srv.URL + "/")
	resp, err := c.Predict(context.Background(), "Decision Tree/v2", scenario)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if gotPath != "/predict/Decision%20Tree%2Fv2" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if resp.Probability != nil {
		t.Fatalf("expected nil probability, got %v", resp.Probability)
	}
}

func TestPredictStatusErrorIsVerbatim(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"SVM model or encoder is not available"}`)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	_, err := c.Predict(context.Background(), "SVM", scenario)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", se.StatusCode)
	}
	want := `Error: 500 - {"detail":"SVM model or encoder is not available"}`
	if se.Error() != want {
		t.Fatalf("unexpected message %q", se.Error())
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("client must not retry, server saw %d calls", calls)
	}
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Predict(context.Background(), "SVM", scenario)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("transport failure should not be a StatusError: %v", err)
	}
}

func TestPredictRejectsEmptyModel(t *testing.T) {
	c, _ := New("http://127.0.0.1:8000")
	if _, err := c.Predict(context.Background(), " ", scenario); err == nil {
		t.Fatal("expected error for empty model name")
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "127.0.0.1:8000", "ftp://host", "http://"} {
		if _, err := New(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestAvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"models":[
			{"name":"DecisionTree","available":true},
			{"name":"SVM","available":false,"error":"missing"}
		],"encoder":{"available":true}}`)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	names := c.AvailableModels(context.Background(), []string{"LogisticRegression"})
	if strings.Join(names, ",") != "DecisionTree" {
		t.Fatalf("unexpected names %v", names)
	}

	srv.Close()
	names = c.AvailableModels(context.Background(), []string{"LogisticRegression"})
	if strings.Join(names, ",") != "LogisticRegression" {
		t.Fatalf("expected fallback, got %v", names)
	}
}

func TestResultText(t *testing.T) {
	positive := schema.PredictionResponse{Prediction: "Positive", Probability: []float64{0.3757, 0.6243}}
	if Verdict(positive) != "Sepsis test will be Positive" {
		t.Fatalf("unexpected verdict %q", Verdict(positive))
	}
	if Chance(positive) != "62.43% chance of Patient developing Sepsis." {
		t.Fatalf("unexpected chance %q", Chance(positive))
	}
	if !IsPositive(positive) || Outlook(positive) != "Patient is likely to develop Sepsis" {
		t.Fatalf("unexpected outlook %q", Outlook(positive))
	}

	negative := schema.PredictionResponse{Prediction: "Negative"}
	if Chance(negative) != "Probability: N/A" {
		t.Fatalf("unexpected chance %q", Chance(negative))
	}
	if Outlook(negative) != "Patient is not likely to develop Sepsis" {
		t.Fatalf("unexpected outlook %q", Outlook(negative))
	}
}
