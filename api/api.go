// Package api serves the digest over HTTP and WebSocket.
package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"RipeDigest/enc"
	"RipeDigest/ipfs"
	jwtutil "RipeDigest/jwt"
	"RipeDigest/qrcard"
	"RipeDigest/store"
	"RipeDigest/ws"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/decred/slog"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

// DefaultMaxBody bounds POST /api/digest bodies when Config.MaxBody is zero.
const DefaultMaxBody = 32 << 20

type Config struct {
	Issuer  *jwtutil.Issuer
	Store   *store.DB        // optional
	IPFS    *ipfs.IPFSClient // optional
	MaxBody int64
}

// Server is the HTTP handler. SetTreeDigest publishes the latest digest of
// the watched directory.
type Server struct {
	cfg Config
	mux *http.ServeMux

	mu         sync.Mutex
	treeDigest string
}

type digestResponse struct {
	Key    string `json:"key,omitempty"`
	Digest string `json:"digest"`
	Size   int64  `json:"size"`
}

func New(cfg Config) *Server {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/token", s.token)
	s.mux.HandleFunc("POST /api/digest", s.auth(s.digest))
	s.mux.HandleFunc("GET /api/digest/{key...}", s.auth(s.lookup))
	s.mux.HandleFunc("GET /api/qr", s.qr)
	s.mux.HandleFunc("GET /api/tree", s.tree)
	s.mux.HandleFunc("GET /api/ipfs/{cid}", s.auth(s.ipfsDigest))
	s.mux.HandleFunc("/ws", ws.Handler(cfg.MaxBody))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) SetTreeDigest(d string) {
	s.mu.Lock()
	s.treeDigest = d
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("Write response: %v", err)
	}
}

// writeError maps error kinds onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var e *errors.Error
	if stderrors.As(err, &e) {
		switch e.Kind {
		case errors.Invalid, errors.Encoding:
			code = http.StatusBadRequest
		case errors.Permission:
			code = http.StatusUnauthorized
		case errors.NotExist:
			code = http.StatusNotFound
		}
	}
	if code == http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tok == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if _, err := s.cfg.Issuer.ValidateToken(tok); err != nil {
			writeError(w, err)
			return
		}
		next(w, r)
	}
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = "user"
	}
	token, err := s.cfg.Issuer.GenerateToken(user)
	if err != nil {
		http.Error(w, "Token generation failed", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(token))
}

func (s *Server) digest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	resp := digestResponse{
		Key:    r.URL.Query().Get("key"),
		Digest: enc.Digest(body),
		Size:   int64(len(body)),
	}
	if s.cfg.Store != nil {
		if resp.Key == "" {
			resp.Key = resp.Digest
		}
		rec := &store.Record{Key: resp.Key, Digest: resp.Digest, Size: resp.Size, Source: "api"}
		if err := s.cfg.Store.Put(rec); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, resp)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		http.Error(w, "no digest store configured", http.StatusNotFound)
		return
	}
	// Keys are often file paths. A key with a leading slash or "//" does not
	// survive path cleaning, so it may also be passed as ?key=.
	key := r.PathValue("key")
	if key == "" {
		key = r.URL.Query().Get("key")
	}
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	rec, err := s.cfg.Store.Get(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) qr(w http.ResponseWriter, r *http.Request) {
	d := r.URL.Query().Get("digest")
	if d == "" {
		d = enc.Digest([]byte(r.URL.Query().Get("data")))
	}
	if !qrcard.Valid(d) {
		http.Error(w, "not a digest", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := qrcard.EncodePNG(d, w); err != nil {
		log.Debugf("Write card: %v", err)
	}
}

func (s *Server) tree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	d := s.treeDigest
	s.mu.Unlock()
	if d == "" {
		http.Error(w, "no tree digest yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"digest": d})
}

func (s *Server) ipfsDigest(w http.ResponseWriter, r *http.Request) {
	if s.cfg.IPFS == nil {
		http.Error(w, "no IPFS endpoint configured", http.StatusNotFound)
		return
	}
	cid := r.PathValue("cid")
	d, n, err := s.cfg.IPFS.DigestCID(cid)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.cfg.Store != nil {
		rec := &store.Record{Key: "ipfs:" + cid, Digest: d, Size: int64(n), Source: "ipfs"}
		if err := s.cfg.Store.Put(rec); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, digestResponse{Key: cid, Digest: d, Size: int64(n)})
}
