package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
)

const (
	appName               = "ripedigest"
	appVersion            = "0.1.0"
	defaultConfigFilename = "ripedigest.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "ripedigest.log"
	defaultDBFilename     = "digests.db"
	defaultListen         = "127.0.0.1:3001"
	defaultTokenTTL       = time.Hour
	defaultThrottle       = time.Second
)

var (
	defaultAppDataDir = appDataDir()
	defaultConfigFile = filepath.Join(defaultAppDataDir, defaultConfigFilename)
)

type config struct {
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	AppDataDir  string `short:"A" long:"appdata" description:"Application data directory for config, database and logs"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	NoFileLog   bool   `long:"nofilelogging" description:"Disable file logging"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	// Digest inputs
	Text    []string `short:"t" long:"text" description:"Digest a literal string (may be repeated)"`
	Tree    string   `long:"tree" description:"Digest a directory tree"`
	CID     []string `long:"cid" description:"Digest IPFS content by CID (may be repeated)"`
	QR      string   `long:"qr" description:"Write a PNG card of the last digest to this path"`
	Workers int      `long:"workers" description:"Files digested concurrently by --tree (0 = GOMAXPROCS)"`
	PubKey  []string `long:"pubkey" description:"Print the fingerprint and address of a hex-encoded secp256k1 public key (may be repeated)"`
	Store   bool     `long:"store" description:"Record computed digests in the database"`
	Publish bool     `long:"publish" description:"Publish digest records to IPFS (requires --ipfs)"`

	// Service
	Serve     bool          `long:"serve" description:"Run the HTTP/WebSocket API"`
	Listen    string        `long:"listen" description:"Listen address for --serve"`
	DBPath    string        `long:"db" description:"Digest database path"`
	JWTSecret string        `long:"jwtsecret" default-mask:"-" description:"Secret used to sign API tokens"`
	TokenTTL  time.Duration `long:"tokenttl" description:"Lifetime of issued API tokens"`
	MaxBody   int64         `long:"maxbody" description:"Maximum request body size for the digest endpoint"`
	IPFS      string        `long:"ipfs" description:"IPFS API endpoint (host:port)"`
	Watch     string        `long:"watch" description:"Directory whose tree digest is kept current"`
	Throttle  time.Duration `long:"throttle" description:"Coalescing window for --watch change events"`
}

func appDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "." + appName
}

// cleanAndExpandPath expands a leading ~ and environment variables and
// cleans the result.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig initializes and parses the config using a config file and
// command line options. Command line options take precedence. The remaining
// positional arguments are returned.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		AppDataDir: defaultAppDataDir,
		DebugLevel: defaultLogLevel,
		Listen:     defaultListen,
		TokenTTL:   defaultTokenTTL,
		Throttle:   defaultThrottle,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s)\n", appName, appVersion, runtime.Version())
		os.Exit(0)
	}

	parser := flags.NewParser(&cfg, flags.Default)
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.ConfigFile == defaultConfigFile && preCfg.AppDataDir != defaultAppDataDir {
		configFile = filepath.Join(cleanAndExpandPath(preCfg.AppDataDir), defaultConfigFilename)
	}
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			parser.WriteHelp(os.Stderr)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	args, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	cfg.AppDataDir = cleanAndExpandPath(cfg.AppDataDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDataDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.AppDataDir, defaultDBFilename)
	}
	cfg.DBPath = cleanAndExpandPath(cfg.DBPath)

	if cfg.Serve && cfg.JWTSecret == "" {
		return nil, nil, fmt.Errorf("--serve requires --jwtsecret")
	}
	if cfg.Publish && cfg.IPFS == "" {
		return nil, nil, fmt.Errorf("--publish requires --ipfs")
	}
	if cfg.Workers < 0 {
		return nil, nil, fmt.Errorf("--workers must not be negative")
	}
	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return nil, nil, err
	}
	return &cfg, args, nil
}
