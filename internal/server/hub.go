package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
	"github.com/BCalow/engine-initial-variables/internal/traceid"
)

// inbound is a decoded frame, or the reason it could not be decoded.
type inbound struct {
	req Request
	err error
}

// hub serves one connection.
//
// gorilla/websocket allows one concurrent reader and one concurrent
// writer; readLoop is the only reader and handleRequests the only writer.
type hub struct {
	conn     *websocket.Conn
	engine   *engine.Engine
	ids      traceid.Generator
	logger   *slog.Logger
	requests chan inbound
}

func newHub(conn *websocket.Conn, eng *engine.Engine, ids traceid.Generator, logger *slog.Logger) *hub {
	return &hub{
		conn:     conn,
		engine:   eng,
		ids:      ids,
		logger:   logger,
		requests: make(chan inbound, 10),
	}
}

// readLoop decodes frames until the peer goes away, then closes requests.
func (h *hub) readLoop() {
	defer close(h.requests)
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Info("connection lost", "error", err)
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			h.requests <- inbound{err: fmt.Errorf("malformed message: %w", err)}
			continue
		}
		h.requests <- inbound{req: req}
	}
}

// handleRequests answers requests in arrival order.
func (h *hub) handleRequests() {
	for in := range h.requests {
		reply := h.handle(in)
		if err := h.conn.WriteJSON(&reply); err != nil {
			h.logger.Info("write failed", "error", err)
			// Drain so readLoop never blocks on a dead writer.
			for range h.requests {
			}
			return
		}
	}
}

func (h *hub) handle(in inbound) Reply {
	traceID := h.ids.Generate()
	if in.err != nil {
		return errorReply("", traceID, CodeBadRequest, in.err.Error())
	}
	req := in.req
	h.logger.Debug("request", "type", req.Type, "id", req.ID, "trace_id", traceID)

	switch req.Type {
	case TypeSolve, TypeCheck:
	default:
		return errorReply(req.ID, traceID, CodeUnknownType, fmt.Sprintf("unknown request type %q", req.Type))
	}

	inputs, err := decodeInputs(req.Inputs)
	if err != nil {
		return errorReply(req.ID, traceID, CodeInvalidArgument, err.Error())
	}

	if req.Type == TypeCheck {
		c, err := h.engine.CheckConstraints(inputs)
		if err != nil {
			return errorReply(req.ID, traceID, CodeInvalidArgument, err.Error())
		}
		return Reply{
			Type:      TypeChecked,
			ID:        req.ID,
			TraceID:   traceID,
			Derivable: symbolStrings(c.Derivable),
			Redundant: symbolStrings(c.Redundant),
		}
	}

	derived, err := h.engine.Solve(inputs)
	if err != nil {
		return errorReply(req.ID, traceID, CodeInvalidArgument, err.Error())
	}
	reply := Reply{
		Type:    TypeSolved,
		ID:      req.ID,
		TraceID: traceID,
		Derived: make(map[string]float64, len(derived)),
	}
	for s, v := range derived {
		reply.Derived[string(s)] = v
	}
	if isp, ok := engine.SpecificImpulse(inputs, derived); ok {
		reply.Isp = &isp
	}
	return reply
}

// decodeInputs turns the raw inputs field into engine inputs. Numbers are
// kept as json.Number so integers and floats decode alike.
func decodeInputs(raw json.RawMessage) (engine.Inputs, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return engine.DecodeInputs(nil)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &engine.InvalidArgumentError{Reason: err.Error()}
	}
	return engine.DecodeInputs(doc)
}

func errorReply(id, traceID, code, message string) Reply {
	return Reply{
		Type:    TypeError,
		ID:      id,
		TraceID: traceID,
		Error:   &ReplyError{Code: code, Message: message},
	}
}

func symbolStrings(syms []symbol.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
