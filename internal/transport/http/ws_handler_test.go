package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/hoshizora/wishcannon-server/internal/config"
	"github.com/hoshizora/wishcannon-server/internal/core"
	"github.com/hoshizora/wishcannon-server/internal/proto"
	"github.com/hoshizora/wishcannon-server/internal/store/sqlite"
)

type outbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hub := core.NewHub(st, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		StaticDir:         t.TempDir(),
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) outbound {
	t.Helper()

	var out outbound
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

func sendLaunch(t *testing.T, ctx context.Context, conn *websocket.Conn, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal launch payload: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeLaunch, Data: payload}); err != nil {
		t.Fatalf("write launch: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestMobileUserAgentRedirects(t *testing.T) {
	ts := startTestServer(t)

	client := &stdhttp.Client{
		CheckRedirect: func(*stdhttp.Request, []*stdhttp.Request) error {
			return stdhttp.ErrUseLastResponse
		},
	}

	req, _ := stdhttp.NewRequest(stdhttp.MethodGet, ts.URL+"/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X)")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("index request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/mobile" {
		t.Fatalf("unexpected redirect target: %q", loc)
	}
}

func TestLaunchReachesEveryClient(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	// Both clients start with the (empty) ledger snapshot.
	for _, conn := range []*websocket.Conn{connA, connB} {
		out := readOutbound(t, ctx, conn)
		if out.Type != proto.OutboundTypeInitialize {
			t.Fatalf("expected initialize_star, got %s", out.Type)
		}
	}

	sendLaunch(t, ctx, connA, proto.LaunchData{Text: "wish", Angle: ptr(45.0)})

	for _, conn := range []*websocket.Conn{connA, connB} {
		out := readOutbound(t, ctx, conn)
		if out.Type != proto.OutboundTypeBroadcast {
			t.Fatalf("expected broadcast_star, got %s", out.Type)
		}

		var star proto.BroadcastData
		if err := json.Unmarshal(out.Data, &star); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if star.Text != "wish" || star.Angle != 45 || star.Lumen != 1 {
			t.Fatalf("unexpected broadcast payload: %+v", star)
		}
	}
}

func TestLegacyStringPayloadAccepted(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readOutbound(t, ctx, conn) // initialize_star

	sendLaunch(t, ctx, conn, "wish")

	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeBroadcast {
		t.Fatalf("expected broadcast_star, got %s", out.Type)
	}

	var star proto.BroadcastData
	if err := json.Unmarshal(out.Data, &star); err != nil {
		t.Fatalf("unmarshal broadcast: %v", err)
	}
	if star.Text != "wish" || star.Lumen != 1 || star.Angle != 0 {
		t.Fatalf("unexpected broadcast payload: %+v", star)
	}
}

func TestLateJoinerReceivesSnapshot(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	readOutbound(t, ctx, connA)

	// Wait for each broadcast so the increments are durably applied
	// before the late joiner connects.
	for _, w := range []string{"sky", "moon", "sky"} {
		sendLaunch(t, ctx, connA, proto.LaunchData{Text: w})
		readOutbound(t, ctx, connA)
	}

	connB := dialWS(t, ctx, ts)
	out := readOutbound(t, ctx, connB)
	if out.Type != proto.OutboundTypeInitialize {
		t.Fatalf("expected initialize_star, got %s", out.Type)
	}

	var entries []proto.StarEntry
	if err := json.Unmarshal(out.Data, &entries); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	counts := make(map[string]int64, len(entries))
	for _, e := range entries {
		counts[e.Word] = e.Count
	}
	if len(counts) != 2 || counts["sky"] != 2 || counts["moon"] != 1 {
		t.Fatalf("unexpected snapshot: %v", counts)
	}
}

func TestUnknownMessageTypeReturnsError(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	readOutbound(t, ctx, conn)

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "warp_drive", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("write inbound: %v", err)
	}

	out := readOutbound(t, ctx, conn)
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", out)
	}
}

func ptr[T any](v T) *T { return &v }
