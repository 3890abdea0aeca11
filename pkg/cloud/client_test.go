package cloud

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/jtollefsen/emberon/pkg/brasa"
)

const testToken = "tok-8f2e71aa"

const mockFiresResponse = `{"fires":[
	{"serial":"EF36-0042","nickname":"Living Room","model":"EF36-PRO","online":true,"firmware":"2.4.1"},
	{"serial":"EF50-0117","nickname":"","model":"EF50","online":false,"firmware":"2.3.0"}
]}`

func testTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: testToken})
}

// failingTokens simulates a token source whose backing store is unavailable
type failingTokens struct{}

func (failingTokens) Token() (*oauth2.Token, error) {
	return nil, errors.New("keychain locked")
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(testTokens())

	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), DefaultBaseURL)
	}

	if client.httpClient == nil {
		t.Fatal("httpClient should not be nil")
	}

	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}

	if client.maxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", client.maxRetries, DefaultMaxRetries)
	}

	if client.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %s, want %s", client.userAgent, DefaultUserAgent)
	}
}

func TestNewClient_Options(t *testing.T) {
	client := NewClient(testTokens(),
		WithBaseURL("http://localhost:8400/api/v2/"),
		WithUserAgent("emberon-test/0.1"),
		WithRetry(5, 2*time.Second),
	)

	if client.BaseURL() != "http://localhost:8400/api/v2" {
		t.Errorf("BaseURL() = %s, want trailing slash trimmed", client.BaseURL())
	}

	if client.host != "localhost:8400" {
		t.Errorf("host = %s, want localhost:8400", client.host)
	}

	if client.userAgent != "emberon-test/0.1" {
		t.Errorf("userAgent = %s, want emberon-test/0.1", client.userAgent)
	}

	if client.maxRetries != 5 {
		t.Errorf("maxRetries = %d, want 5", client.maxRetries)
	}

	if client.retryDelay != 2*time.Second {
		t.Errorf("retryDelay = %v, want 2s", client.retryDelay)
	}
}

func TestListFires_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Request method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/fires" {
			t.Errorf("Request path = %s, want /fires", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %s, want %s", got, DefaultUserAgent)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockFiresResponse))
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	fires, err := client.ListFires(context.Background())

	if err != nil {
		t.Fatalf("ListFires() error = %v, want nil", err)
	}

	if len(fires) != 2 {
		t.Fatalf("len(fires) = %d, want 2", len(fires))
	}

	if fires[0].Serial != "EF36-0042" {
		t.Errorf("Serial = %s, want EF36-0042", fires[0].Serial)
	}

	if fires[0].Label() != "Living Room" {
		t.Errorf("Label() = %s, want Living Room", fires[0].Label())
	}

	if !fires[0].Online {
		t.Error("fires[0] should be online")
	}

	if fires[1].Label() != "EF50-0117" {
		t.Errorf("Label() = %s, want serial fallback EF50-0117", fires[1].Label())
	}
}

func TestListFires_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	_, err := client.ListFires(context.Background())

	if err == nil {
		t.Fatal("ListFires() should return error for auth failure")
	}

	if !IsAuthError(err) {
		t.Errorf("ListFires() error should be auth error, got %T: %v", err, err)
	}
}

func TestListFires_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not valid JSON at all"))
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	_, err := client.ListFires(context.Background())

	if err == nil {
		t.Fatal("ListFires() should return error for invalid JSON")
	}

	if !IsParseError(err) {
		t.Errorf("ListFires() error should be parse error, got %T: %v", err, err)
	}
}

func TestListFires_TokenSourceFailure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(failingTokens{}, WithBaseURL(server.URL))
	_, err := client.ListFires(context.Background())

	if err == nil {
		t.Fatal("ListFires() should fail when the token source fails")
	}

	if !IsAuthError(err) {
		t.Errorf("ListFires() error should be auth error, got %T: %v", err, err)
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestGetOverview_Success(t *testing.T) {
	body := overviewBody(t,
		brasa.ModeParam{Mode: brasa.ModeOn},
		brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: 225},
		brasa.FaultParam{Code: brasa.FaultNone},
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fires/EF36-0042/overview" {
			t.Errorf("Request path = %s, want /fires/EF36-0042/overview", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	overview, err := client.GetOverview(context.Background(), "EF36-0042")

	if err != nil {
		t.Fatalf("GetOverview() error = %v, want nil", err)
	}

	if overview.Serial != "EF36-0042" {
		t.Errorf("Serial = %s, want EF36-0042", overview.Serial)
	}

	if overview.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}

	if overview.Mode == nil || overview.Mode.Mode != brasa.ModeOn {
		t.Errorf("Mode = %+v, want ModeOn", overview.Mode)
	}

	if overview.Setpoint == nil || overview.Setpoint.Setpoint != 225 {
		t.Errorf("Setpoint = %+v, want 225", overview.Setpoint)
	}

	if overview.Faulted() {
		t.Error("Faulted() should be false for FaultNone")
	}

	if overview.Timer != nil {
		t.Error("Timer should be nil when not reported")
	}
}

func TestGetOverview_CorruptBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte{0x42, 0x00, 0x01}) // truncated header
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	_, err := client.GetOverview(context.Background(), "EF36-0042")

	if err == nil {
		t.Fatal("GetOverview() should return error for corrupt body")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != ErrTypeFrame {
		t.Errorf("GetOverview() error should be frame error, got %T: %v", err, err)
	}

	if !errors.Is(err, brasa.ErrMalformedFrame) {
		t.Errorf("error chain should include brasa.ErrMalformedFrame, got %v", err)
	}
}

func TestGetOverview_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	_, err := client.GetOverview(context.Background(), "EF00-9999")

	if err == nil {
		t.Fatal("GetOverview() should return error for unknown serial")
	}

	if !IsNotFound(err) {
		t.Errorf("GetOverview() error should be not-found, got %T: %v", err, err)
	}
}

func TestGetOverview_EmptySerial(t *testing.T) {
	client := NewClient(testTokens())
	_, err := client.GetOverview(context.Background(), "")

	if err == nil {
		t.Fatal("GetOverview() should reject an empty serial")
	}

	if !IsValidationError(err) {
		t.Errorf("GetOverview() error should be validation error, got %T: %v", err, err)
	}
}

func TestWriteParameters_Success(t *testing.T) {
	want := overviewBody(t,
		brasa.ModeParam{Mode: brasa.ModeOn},
		brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: 225},
	)

	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("Request method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/fires/EF36-0042/parameters" {
			t.Errorf("Request path = %s, want /fires/EF36-0042/parameters", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %s, want application/octet-stream", got)
		}

		var err error
		received, err = io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read request body: %v", err)
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	err := client.WriteParameters(context.Background(), "EF36-0042",
		brasa.ModeParam{Mode: brasa.ModeOn},
		brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: 225},
	)

	if err != nil {
		t.Fatalf("WriteParameters() error = %v, want nil", err)
	}

	if !bytes.Equal(received, want) {
		t.Errorf("request body = % x, want % x", received, want)
	}
}

func TestWriteParameters_EncodingFailure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	err := client.WriteParameters(context.Background(), "EF36-0042",
		brasa.SetpointParam{HeatMode: brasa.HeatAuto, Setpoint: 50}, // below minimum
	)

	if err == nil {
		t.Fatal("WriteParameters() should reject an unencodable parameter")
	}

	if !IsValidationError(err) {
		t.Errorf("WriteParameters() error should be validation error, got %T: %v", err, err)
	}

	if !errors.Is(err, brasa.ErrEncoding) {
		t.Errorf("error chain should include brasa.ErrEncoding, got %v", err)
	}

	if n := requests.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestWriteParameters_NoParams(t *testing.T) {
	client := NewClient(testTokens())
	err := client.WriteParameters(context.Background(), "EF36-0042")

	if err == nil {
		t.Fatal("WriteParameters() should reject an empty parameter list")
	}

	if !IsValidationError(err) {
		t.Errorf("WriteParameters() error should be validation error, got %T: %v", err, err)
	}
}

func TestRetry_ServerErrorThenSuccess(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"fires":[]}`))
	}))
	defer server.Close()

	client := NewClient(testTokens(),
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond),
	)

	fires, err := client.ListFires(context.Background())

	if err != nil {
		t.Fatalf("ListFires() error = %v, want nil after retries", err)
	}

	if len(fires) != 0 {
		t.Errorf("len(fires) = %d, want 0", len(fires))
	}

	if n := requests.Load(); n != 3 {
		t.Errorf("server saw %d requests, want 3", n)
	}
}

func TestRetry_RateLimited(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"fires":[]}`))
	}))
	defer server.Close()

	client := NewClient(testTokens(),
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond),
	)

	_, err := client.ListFires(context.Background())

	if err != nil {
		t.Fatalf("ListFires() error = %v, want nil after rate-limit retry", err)
	}

	if n := requests.Load(); n != 2 {
		t.Errorf("server saw %d requests, want 2", n)
	}
}

func TestRetry_NotRetriedOnClientError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testTokens(),
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond),
	)

	_, err := client.GetOverview(context.Background(), "EF00-9999")

	if err == nil {
		t.Fatal("GetOverview() should return error")
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1 (no retries on 404)", n)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testTokens(),
		WithBaseURL(server.URL),
		WithRetry(2, time.Millisecond),
	)

	_, err := client.ListFires(context.Background())

	if err == nil {
		t.Fatal("ListFires() should return error when retries are exhausted")
	}

	if !IsHTTPError(err) {
		t.Errorf("error should be HTTP error, got %T: %v", err, err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}

	if n := requests.Load(); n != 3 {
		t.Errorf("server saw %d requests, want 3 (initial + 2 retries)", n)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	client := NewClient(testTokens(), WithBaseURL("http://127.0.0.1:1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListFires(ctx)

	if err == nil {
		t.Fatal("ListFires() should fail with a cancelled context")
	}

	if IsRetryable(err) {
		t.Errorf("cancelled request should not be retryable, got %v", err)
	}
}

func TestConvenienceSetters(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		received, err = io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read request body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(testTokens(), WithBaseURL(server.URL))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want brasa.Parameter
	}{
		{
			name: "TurnOn",
			call: func() error { return client.TurnOn(ctx, "EF36-0042") },
			want: brasa.ModeParam{Mode: brasa.ModeOn},
		},
		{
			name: "TurnOff",
			call: func() error { return client.TurnOff(ctx, "EF36-0042") },
			want: brasa.ModeParam{Mode: brasa.ModeStandby},
		},
		{
			name: "SetMode",
			call: func() error { return client.SetMode(ctx, "EF36-0042", brasa.ModeEco) },
			want: brasa.ModeParam{Mode: brasa.ModeEco},
		},
		{
			name: "SetSetpoint",
			call: func() error { return client.SetSetpoint(ctx, "EF36-0042", brasa.HeatLow, 180) },
			want: brasa.SetpointParam{HeatMode: brasa.HeatLow, Setpoint: 180},
		},
		{
			name: "SetFlameEffect",
			call: func() error { return client.SetFlameEffect(ctx, "EF36-0042", brasa.EffectEmber) },
			want: brasa.FlameEffectParam{Effect: brasa.EffectEmber},
		},
		{
			name: "SetTimer",
			call: func() error { return client.SetTimer(ctx, "EF36-0042", true, 90) },
			want: brasa.TimerParam{Enabled: true, Minutes: 90},
		},
		{
			name: "SetColor",
			call: func() error { return client.SetColor(ctx, "EF36-0042", 255, 80, 0, 40) },
			want: brasa.ColorParam{R: 255, G: 80, B: 0, W: 40},
		},
		{
			name: "SetLight",
			call: func() error { return client.SetLight(ctx, "EF36-0042", brasa.LightAmbient, 128) },
			want: brasa.LightParam{Mode: brasa.LightAmbient, Brightness: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("%s error = %v, want nil", tt.name, err)
			}

			decoded, err := brasa.DecodeParameter(received)
			if err != nil {
				t.Fatalf("sent frame does not decode: %v", err)
			}

			if decoded != tt.want {
				t.Errorf("sent parameter = %#v, want %#v", decoded, tt.want)
			}
		})
	}
}
