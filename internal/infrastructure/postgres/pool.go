package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pms-api/pkg/config"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// NewPool abre el pool de PostgreSQL con el tamaño y los tiempos de cfg y verifica la conexión.
// Los hosts se marcan en IPv4: Supabase puede resolver solo AAAA y los contenedores no suelen tener IPv6.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("postgres")

	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	start := time.Now()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", pc.ConnConfig.Host).
		Str("database", pc.ConnConfig.Database).
		Int32("max_conns", pc.MaxConns).
		Int32("min_conns", pc.MinConns).
		Dur("max_conn_lifetime", pc.MaxConnLifetime).
		Dur("ping", time.Since(start)).
		Msg("pool PostgreSQL listo")
	return pool, nil
}

// poolConfig traduce DBConfig a la configuración de pgxpool. Los campos en cero conservan
// los valores por defecto de Load.
func poolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	dsn := cfg.DatabaseURL
	if dsn != "" {
		dsn = urlWithIPv4(dsn)
	} else {
		c := cfg
		if ip, err := lookupIPv4(cfg.Host); err == nil {
			c.Host = ip
		}
		dsn = c.DSN()
	}
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.MaxConns = int32(orDefault(cfg.MaxConns, 25))
	pc.MinConns = int32(orDefault(cfg.MinConns, 2))
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	pc.MaxConnLifetime = durationOr(cfg.MaxConnLifetime, time.Hour)
	pc.MaxConnIdleTime = durationOr(cfg.MaxConnIdleTime, 30*time.Minute)
	pc.HealthCheckPeriod = durationOr(cfg.HealthCheckPeriod, time.Minute)
	pc.ConnConfig.ConnectTimeout = connectTimeout(cfg)
	pc.ConnConfig.DialFunc = dialIPv4

	// NUMERIC <-> shopspring/decimal en cada conexión nueva.
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

func connectTimeout(cfg config.DBConfig) time.Duration {
	return durationOr(cfg.ConnectTimeout, 10*time.Second)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func durationOr(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

// dialIPv4 marca por tcp4 cuando el host tiene A; si no, deja el dial normal.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

var errNoIPv4 = errors.New("sin dirección IPv4")

// publicResolver se usa cuando el DNS del contenedor solo devuelve IPv6.
var publicResolver = &net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "udp", "8.8.8.8:53")
	},
}

// lookupIPv4 devuelve la primera IPv4 de host, o host si ya es una IPv4 literal.
func lookupIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, r := range []*net.Resolver{net.DefaultResolver, publicResolver} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err != nil {
			continue
		}
		for _, ip := range ips {
			if ip.To4() != nil {
				return ip.String(), nil
			}
		}
	}
	return "", errNoIPv4
}

// urlWithIPv4 reemplaza el hostname de DATABASE_URL por su IPv4; ante cualquier fallo devuelve la URL original.
func urlWithIPv4(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	ip, err := lookupIPv4(u.Hostname())
	if err != nil {
		return raw
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}
