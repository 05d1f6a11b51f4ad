package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	PublicDir   string
	PrivateDir  string
	Debug       bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name")
	var port uint
	flag.UintVar(&port, "port", 8080, "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", "canvass.sqlite", "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds")
	flag.StringVar(&cfg.PublicDir, "public-dir", "public", "directory of viewer static assets")
	flag.StringVar(&cfg.PrivateDir, "private-dir", "private", "directory of builder static assets")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() string {
	addr := strings.Replace(cfg.Addr, "0.0.0.0", "localhost", 1)
	return "http://" + addr
}
