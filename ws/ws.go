// File: ws/ws.go

// websocket endpoint that digests each message a client sends
package ws

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"RipeDigest/enc"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request asks for the digest of Data. Encoding is one of "utf8" (default),
// "hex" or "base64".
type Request struct {
	ID       string `json:"id"`
	Data     string `json:"data"`
	Encoding string `json:"encoding,omitempty"`
}

type Response struct {
	ID     string `json:"id"`
	Digest string `json:"digest,omitempty"`
	Error  string `json:"error,omitempty"`
}

func decode(req *Request) ([]byte, error) {
	const op errors.Op = "ws.decode"
	switch req.Encoding {
	case "", "utf8":
		return []byte(req.Data), nil
	case "hex":
		b, err := hex.DecodeString(req.Data)
		if err != nil {
			return nil, errors.E(op, errors.Encoding, err)
		}
		return b, nil
	case "base64":
		b, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, errors.E(op, errors.Encoding, err)
		}
		return b, nil
	default:
		return nil, errors.E(op, errors.Invalid, errors.Errorf("unknown encoding %q", req.Encoding))
	}
}

// Handle answers one request.
func Handle(msg []byte) Response {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return Response{Error: "invalid request"}
	}
	data, err := decode(&req)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Digest: enc.Digest(data)}
}

// Handler returns the websocket endpoint. A message longer than maxMessage
// bytes closes the connection; maxMessage <= 0 leaves messages unbounded.
func Handler(maxMessage int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, maxMessage)
	}
}

func serve(w http.ResponseWriter, r *http.Request, maxMessage int64) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("Upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	if maxMessage > 0 {
		conn.SetReadLimit(maxMessage)
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("Read from %s: %v", r.RemoteAddr, err)
			}
			return
		}
		if err := conn.WriteJSON(Handle(msg)); err != nil {
			log.Debugf("Write to %s: %v", r.RemoteAddr, err)
			return
		}
	}
}
