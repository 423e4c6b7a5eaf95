package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"RipeDigest/api"
	"RipeDigest/enc"
	"RipeDigest/fswatch"
	"RipeDigest/ipfs"
	jwtutil "RipeDigest/jwt"
	"RipeDigest/keyid"
	"RipeDigest/qrcard"
	"RipeDigest/store"
	"RipeDigest/tree"
	"RipeDigest/util"

	"github.com/btcsuite/btcd/btcec/v2"
)

// example is digested when no input is given.
const example = "Hello World!"

type result struct {
	name   string
	digest string
	size   int64
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if logRotator != nil {
			logRotator.Close()
		}
		os.Exit(1)
	}
	if logRotator != nil {
		logRotator.Close()
	}
}

func run() error {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.NoFileLog {
		if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *store.DB
	if cfg.Store || cfg.Serve {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
			return err
		}
		db, err = store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}
	var ipfsClient *ipfs.IPFSClient
	if cfg.IPFS != "" {
		ipfsClient = ipfs.NewClient(cfg.IPFS)
	}

	results, err := digestInputs(ctx, cfg, args, ipfsClient)
	if err != nil {
		return err
	}
	if len(results) == 0 && !cfg.Serve {
		results = append(results, result{name: fmt.Sprintf("%q", example),
			digest: enc.Digest([]byte(example)), size: int64(len(example))})
	}
	for _, r := range results {
		fmt.Printf("%s  %s\n", r.digest, r.name)
		rec := &store.Record{Key: r.name, Digest: r.digest, Size: r.size, Source: "cli",
			Created: util.CurrentTimeUTC()}
		if db != nil {
			if err := db.Put(rec); err != nil {
				return err
			}
		}
		if cfg.Publish {
			if err := publish(ipfsClient, rec); err != nil {
				return err
			}
		}
	}
	if cfg.QR != "" && len(results) > 0 {
		last := results[len(results)-1]
		if err := qrcard.WriteFile(last.digest, cfg.QR); err != nil {
			return err
		}
		log.Infof("Wrote card for %s to %s", last.name, cfg.QR)
	}

	if !cfg.Serve {
		return nil
	}
	return serve(ctx, cfg, db, ipfsClient)
}

func digestInputs(ctx context.Context, cfg *config, args []string, ipfsClient *ipfs.IPFSClient) ([]result, error) {
	var results []result
	for _, s := range cfg.Text {
		results = append(results, result{name: fmt.Sprintf("%q", s),
			digest: enc.Digest([]byte(s)), size: int64(len(s))})
	}
	for _, name := range args {
		var data []byte
		var err error
		if name == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result{name: name, digest: enc.Digest(data), size: int64(len(data))})
	}
	for _, s := range cfg.PubKey {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("--pubkey %q: %v", s, err)
		}
		pub, err := btcec.ParsePubKey(b)
		if err != nil {
			return nil, fmt.Errorf("--pubkey %q: %v", s, err)
		}
		results = append(results, result{name: "key:" + keyid.Address(pub), digest: keyid.Fingerprint(pub)})
	}
	if cfg.Tree != "" {
		root, err := tree.Compute(ctx, cfg.Tree, cfg.Workers)
		if err != nil {
			return nil, err
		}
		results = append(results, result{name: cfg.Tree + string(filepath.Separator), digest: root.Digest})
	}
	if len(cfg.CID) > 0 && ipfsClient == nil {
		return nil, fmt.Errorf("--cid requires --ipfs")
	}
	for _, cid := range cfg.CID {
		d, n, err := ipfsClient.DigestCID(cid)
		if err != nil {
			return nil, err
		}
		results = append(results, result{name: "ipfs:" + cid, digest: d, size: int64(n)})
	}
	return results, nil
}

// publish adds rec to IPFS and logs its CID alongside the digest of the
// record itself.
func publish(c *ipfs.IPFSClient, rec *store.Record) error {
	rd, err := util.RecordDigest(rec)
	if err != nil {
		return err
	}
	cid, err := c.StoreRecord(rec)
	if err != nil {
		return err
	}
	log.Infof("Published %s as %s (record %s)", rec.Key, cid, rd)
	return nil
}

func serve(ctx context.Context, cfg *config, db *store.DB, ipfsClient *ipfs.IPFSClient) error {
	srv := api.New(api.Config{
		Issuer:  jwtutil.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
		Store:   db,
		IPFS:    ipfsClient,
		MaxBody: cfg.MaxBody,
	})

	if cfg.Watch != "" {
		updates := make(chan string)
		go func() {
			if err := fswatch.Watch(ctx, cfg.Watch, cfg.Throttle, updates); err != nil {
				log.Errorf("Watch %s: %v", cfg.Watch, err)
			}
		}()
		go func() {
			for {
				select {
				case d := <-updates:
					log.Infof("Tree digest of %s: %s", cfg.Watch, d)
					srv.SetTreeDigest(d)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", cfg.Listen)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
