package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nao1215/sqlkernel"
)

// conn is one websocket client. Requests are handled on the read goroutine;
// the write goroutine owns all writes to the socket.
type conn struct {
	server *Server
	ws     *websocket.Conn
	send   chan *Message
	id     string
	// ctx is cancelled when the client goes away, aborting running queries
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.ws.Close()
	})
}

// readPump handles reading messages from the websocket connection
func (c *conn) readPump() {
	defer func() {
		c.server.untrack(c)
		c.cancel()
		close(c.send)
		c.server.logger.Debugw("client disconnected", "client_id", c.id)
	}()

	c.ws.SetReadLimit(c.server.opts.ReadLimit)
	if ping := c.server.opts.PingInterval; ping > 0 {
		pongWait := 2 * ping
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.ws.SetPongHandler(func(string) error {
			return c.ws.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.server.logger.Warnw("websocket read error", "client_id", c.id, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error", "client_id", c.id, "error", err.Error())
			continue
		}
		c.route(&msg)
	}
}

// writePump sends queued messages and keepalive pings
func (c *conn) writePump() {
	var tick <-chan time.Time
	if ping := c.server.opts.PingInterval; ping > 0 {
		ticker := time.NewTicker(ping)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.close()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				c.server.logger.Warnw("websocket write error",
					"client_id", c.id, "msg_type", msg.Header.MsgType, "error", err)
				return
			}
		case <-tick:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// route dispatches one request, bracketed by busy and idle status messages.
func (c *conn) route(msg *Message) {
	parent := msg.Header
	c.server.logger.Debugw("received message", "client_id", c.id, "msg_type", parent.MsgType, "msg_id", parent.MsgID)

	c.emit(MsgStatus, &parent, Status{ExecutionState: StateBusy})
	defer c.emit(MsgStatus, &parent, Status{ExecutionState: StateIdle})

	switch parent.MsgType {
	case MsgExecuteRequest:
		c.handleExecute(msg)
	case MsgKernelInfoRequest:
		c.handleKernelInfo(msg)
	case MsgCompleteRequest:
		c.handleComplete(msg)
	case MsgIsCompleteRequest:
		c.handleIsComplete(msg)
	case MsgShutdownRequest:
		c.handleShutdown(msg)
	default:
		c.server.logger.Warnw("unsupported message type", "client_id", c.id, "msg_type", parent.MsgType)
	}
}

func (c *conn) handleExecute(msg *Message) {
	var req ExecuteRequest
	if err := msg.Decode(&req); err != nil {
		c.emit(MsgExecuteReply, &msg.Header, ExecuteReply{
			Status:    string(sqlkernel.StatusError),
			EName:     "BadRequest",
			EValue:    err.Error(),
			Traceback: []string{err.Error()},
		})
		return
	}

	reply := c.server.kernel.Execute(c.ctx, sqlkernel.ExecuteRequest{Code: req.Code, Silent: req.Silent})
	for _, out := range reply.Outputs {
		switch out.Type {
		case sqlkernel.OutputExecuteResult:
			c.emit(MsgExecuteResult, &msg.Header, ExecuteResult{
				ExecutionCount: reply.ExecutionCount,
				Data:           out.Data,
				Metadata:       map[string]any{},
			})
		default:
			c.emit(MsgDisplayData, &msg.Header, DisplayData{Data: out.Data, Metadata: map[string]any{}})
		}
	}

	content := ExecuteReply{Status: string(reply.Status), ExecutionCount: reply.ExecutionCount}
	if reply.Error != nil {
		c.emit(MsgError, &msg.Header, Error{
			EName:     reply.Error.EName,
			EValue:    reply.Error.EValue,
			Traceback: reply.Error.Traceback,
		})
		content.EName = reply.Error.EName
		content.EValue = reply.Error.EValue
		content.Traceback = reply.Error.Traceback
	}
	c.emit(MsgExecuteReply, &msg.Header, content)
}

func (c *conn) handleKernelInfo(msg *Message) {
	info := c.server.kernel.KernelInfo()
	c.emit(MsgKernelInfoReply, &msg.Header, KernelInfoReply{
		Status:                string(sqlkernel.StatusOK),
		ProtocolVersion:       ProtocolVersion,
		Implementation:        info.Implementation,
		ImplementationVersion: info.ImplementationVersion,
		LanguageInfo: LanguageInfo{
			Name:          info.LanguageInfo.Name,
			Version:       info.LanguageInfo.Version,
			MIMEType:      info.LanguageInfo.MIMEType,
			FileExtension: info.LanguageInfo.FileExtension,
		},
		Banner: info.Banner,
	})
}

func (c *conn) handleComplete(msg *Message) {
	var req CompleteRequest
	if err := msg.Decode(&req); err != nil {
		c.server.logger.Warnw("bad complete_request", "client_id", c.id, "error", err)
		return
	}
	res := c.server.kernel.Complete(c.ctx, req.Code, req.CursorPos)
	c.emit(MsgCompleteReply, &msg.Header, CompleteReply{
		Status:      string(sqlkernel.StatusOK),
		Matches:     res.Matches,
		CursorStart: res.CursorStart,
		CursorEnd:   res.CursorEnd,
		Metadata:    map[string]any{},
	})
}

func (c *conn) handleIsComplete(msg *Message) {
	var req IsCompleteRequest
	if err := msg.Decode(&req); err != nil {
		c.server.logger.Warnw("bad is_complete_request", "client_id", c.id, "error", err)
		return
	}
	c.emit(MsgIsCompleteReply, &msg.Header, IsCompleteReply{Status: c.server.kernel.IsComplete(req.Code)})
}

func (c *conn) handleShutdown(msg *Message) {
	var req ShutdownRequest
	if err := msg.Decode(&req); err != nil {
		c.server.logger.Warnw("bad shutdown_request", "client_id", c.id, "error", err)
	}
	c.emit(MsgShutdownReply, &msg.Header, ShutdownReply{Status: string(sqlkernel.StatusOK), Restart: req.Restart})
	c.server.logger.Infow("shutdown requested", "client_id", c.id, "restart", req.Restart)
	c.server.requestShutdown()
}

// emit queues a message unless the connection is gone.
func (c *conn) emit(msgType string, parent *Header, content any) {
	msg, err := newMessage(msgType, parent, "", content)
	if err != nil {
		c.server.logger.Errorw("failed to build message", "client_id", c.id, "msg_type", msgType, "error", err)
		return
	}
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}
