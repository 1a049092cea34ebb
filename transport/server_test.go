package transport

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sqlkernel"
	"github.com/nao1215/sqlkernel/engine"
)

// fakeKernel answers every request with canned values.
type fakeKernel struct {
	mu       sync.Mutex
	executed []sqlkernel.ExecuteRequest
}

func (f *fakeKernel) Execute(_ context.Context, req sqlkernel.ExecuteRequest) sqlkernel.ExecuteReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, req)
	return sqlkernel.ExecuteReply{
		Status:         sqlkernel.StatusOK,
		ExecutionCount: len(f.executed),
		Outputs: []sqlkernel.Output{{
			Type: sqlkernel.OutputDisplayData,
			Data: sqlkernel.Bundle{sqlkernel.MIMETextPlain: "ran " + req.Code},
		}},
	}
}

func (f *fakeKernel) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.executed)
}

func (f *fakeKernel) KernelInfo() sqlkernel.KernelInfo {
	return sqlkernel.KernelInfo{
		Implementation:        "fake",
		ImplementationVersion: "9.9",
		LanguageInfo:          sqlkernel.LanguageInfo{Name: "sqlite", MIMEType: "text/x-sqlite"},
	}
}

func (f *fakeKernel) Complete(_ context.Context, _ string, cursor int) sqlkernel.CompleteReply {
	return sqlkernel.CompleteReply{Matches: []string{"SELECT"}, CursorStart: 0, CursorEnd: cursor}
}

func (f *fakeKernel) IsComplete(string) string { return "complete" }

func startServer(t *testing.T, k Kernel, opts Options) (*Server, string) {
	t.Helper()
	srv := NewServer(k, opts, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.closeConnections()
		srv.wg.Wait()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + srv.opts.Path
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, msgType string, content any) *Message {
	t.Helper()
	msg, err := NewRequest(msgType, "test-session", content)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(msg))
	return msg
}

// replies reads every message answering req up to and including its idle status.
func replies(t *testing.T, ws *websocket.Conn, req *Message) []*Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))

	var out []*Message
	for {
		var msg Message
		require.NoError(t, ws.ReadJSON(&msg))
		require.NotNil(t, msg.ParentHeader)
		require.Equal(t, req.Header.MsgID, msg.ParentHeader.MsgID)
		assert.Equal(t, "test-session", msg.Header.Session)
		out = append(out, &msg)

		if msg.Header.MsgType == MsgStatus {
			var status Status
			require.NoError(t, msg.Decode(&status))
			if status.ExecutionState == StateIdle {
				return out
			}
		}
	}
}

func msgTypes(msgs []*Message) []string {
	types := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		types = append(types, msg.Header.MsgType)
	}
	return types
}

func newKernel(t *testing.T) *sqlkernel.Kernel {
	t.Helper()
	ctx := context.Background()
	built, err := sqlkernel.NewBuilder().
		WithDatabase(filepath.Join(t.TempDir(), "ws.db"), engine.ModeReadWrite).
		CreateIfMissing().
		Build(ctx)
	require.NoError(t, err)
	k, err := built.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })
	return k
}

func TestServer_Execute(t *testing.T) {
	t.Parallel()

	k := newKernel(t)
	_, url := startServer(t, k, Options{Path: "/kernel"})
	ws := dial(t, url)

	create := send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: "CREATE TABLE t (n INTEGER)"})
	assert.Equal(t, []string{MsgStatus, MsgExecuteReply, MsgStatus}, msgTypes(replies(t, ws, create)))
	replies(t, ws, send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: "INSERT INTO t VALUES (41), (42)"}))

	query := send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: "SELECT max(n) AS top FROM t"})
	msgs := replies(t, ws, query)
	require.Equal(t, []string{MsgStatus, MsgExecuteResult, MsgExecuteReply, MsgStatus}, msgTypes(msgs))

	var busy Status
	require.NoError(t, msgs[0].Decode(&busy))
	assert.Equal(t, StateBusy, busy.ExecutionState)

	var result ExecuteResult
	require.NoError(t, msgs[1].Decode(&result))
	assert.Equal(t, 3, result.ExecutionCount)
	assert.Contains(t, result.Data[sqlkernel.MIMETextPlain], "42")

	var reply ExecuteReply
	require.NoError(t, msgs[2].Decode(&reply))
	assert.Equal(t, "ok", reply.Status)
	assert.Equal(t, 3, reply.ExecutionCount)
}

func TestServer_ExecuteError(t *testing.T) {
	t.Parallel()

	_, url := startServer(t, newKernel(t), Options{})
	ws := dial(t, url)

	msgs := replies(t, ws, send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: "%XVEGA_PLOT MARK HEXAGON <> SELECT 1"}))
	require.Equal(t, []string{MsgStatus, MsgError, MsgExecuteReply, MsgStatus}, msgTypes(msgs))

	var errMsg Error
	require.NoError(t, msgs[1].Decode(&errMsg))
	assert.Equal(t, "ParseError", errMsg.EName)
	assert.NotEmpty(t, errMsg.Traceback)

	var reply ExecuteReply
	require.NoError(t, msgs[2].Decode(&reply))
	assert.Equal(t, "error", reply.Status)
	assert.Equal(t, "ParseError", reply.EName)
}

func TestServer_Chart(t *testing.T) {
	t.Parallel()

	_, url := startServer(t, newKernel(t), Options{})
	ws := dial(t, url)

	msgs := replies(t, ws, send(t, ws, MsgExecuteRequest, ExecuteRequest{
		Code: "%XVEGA_PLOT X_FIELD a Y_FIELD b MARK POINT <> SELECT 1 AS a, 2 AS b",
	}))
	require.Equal(t, []string{MsgStatus, MsgDisplayData, MsgExecuteReply, MsgStatus}, msgTypes(msgs))

	var display struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, msgs[1].Decode(&display))
	var chart struct {
		Mark struct {
			Type string `json:"type"`
		} `json:"mark"`
	}
	require.NoError(t, json.Unmarshal(display.Data[sqlkernel.MIMEVegaLite], &chart))
	assert.Equal(t, "point", chart.Mark.Type)
}

func TestServer_KernelInfoAndCompletion(t *testing.T) {
	t.Parallel()

	_, url := startServer(t, &fakeKernel{}, Options{})
	ws := dial(t, url)

	msgs := replies(t, ws, send(t, ws, MsgKernelInfoRequest, struct{}{}))
	require.Equal(t, []string{MsgStatus, MsgKernelInfoReply, MsgStatus}, msgTypes(msgs))
	var info KernelInfoReply
	require.NoError(t, msgs[1].Decode(&info))
	assert.Equal(t, "fake", info.Implementation)
	assert.Equal(t, ProtocolVersion, info.ProtocolVersion)
	assert.Equal(t, "text/x-sqlite", info.LanguageInfo.MIMEType)

	msgs = replies(t, ws, send(t, ws, MsgCompleteRequest, CompleteRequest{Code: "SEL", CursorPos: 3}))
	var complete CompleteReply
	require.NoError(t, msgs[1].Decode(&complete))
	assert.Equal(t, "ok", complete.Status)
	assert.Equal(t, []string{"SELECT"}, complete.Matches)
	assert.Equal(t, 3, complete.CursorEnd)

	msgs = replies(t, ws, send(t, ws, MsgIsCompleteRequest, IsCompleteRequest{Code: "SELECT"}))
	var isComplete IsCompleteReply
	require.NoError(t, msgs[1].Decode(&isComplete))
	assert.Equal(t, "complete", isComplete.Status)
}

func TestServer_IgnoresMalformedMessages(t *testing.T) {
	t.Parallel()

	k := &fakeKernel{}
	_, url := startServer(t, k, Options{})
	ws := dial(t, url)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	msgs := replies(t, ws, send(t, ws, "comm_open", struct{}{}))
	assert.Equal(t, []string{MsgStatus, MsgStatus}, msgTypes(msgs))

	msgs = replies(t, ws, send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: "SELECT 1"}))
	assert.Equal(t, []string{MsgStatus, MsgDisplayData, MsgExecuteReply, MsgStatus}, msgTypes(msgs))
	assert.Equal(t, 1, k.count())
}

func TestServer_CheckOrigin(t *testing.T) {
	t.Parallel()

	_, url := startServer(t, &fakeKernel{}, Options{AllowedOrigins: []string{"http://localhost"}})

	header := http.Header{}
	header.Set("Origin", "http://localhost:8888")
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = ws.Close()

	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_ReadLimit(t *testing.T) {
	t.Parallel()

	_, url := startServer(t, &fakeKernel{}, Options{ReadLimit: 64})
	ws := dial(t, url)

	send(t, ws, MsgExecuteRequest, ExecuteRequest{Code: strings.Repeat("x", 256)})
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := ws.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseMessageTooBig), "%v", err)
}

func TestServer_Shutdown(t *testing.T) {
	t.Parallel()

	srv, url := startServer(t, &fakeKernel{}, Options{})
	ws := dial(t, url)

	msgs := replies(t, ws, send(t, ws, MsgShutdownRequest, ShutdownRequest{Restart: true}))
	require.Equal(t, []string{MsgStatus, MsgShutdownReply, MsgStatus}, msgTypes(msgs))
	var reply ShutdownReply
	require.NoError(t, msgs[1].Decode(&reply))
	assert.True(t, reply.Restart)

	select {
	case <-srv.ShutdownRequested():
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown was not requested")
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeKernel{}, Options{Path: "/kernel", PingInterval: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestServer_RejectsConnectionsWhileClosing(t *testing.T) {
	t.Parallel()

	srv, url := startServer(t, &fakeKernel{}, Options{})
	srv.closeConnections()

	ws := dial(t, url)
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection should be closed, not left open")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Empty(t, srv.conns)
}
