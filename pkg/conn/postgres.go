package conn

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	Register(newPostgres, "postgres", "postgresql")
}

// postgresAdapter checks a Postgres endpoint. A pool is created and closed
// per operation; pooling across operations is the engine's business.
type postgresAdapter struct {
	c Conn
}

func newPostgres(c Conn) (Adapter, error) {
	if c.Host == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"postgres connection requires a host").WithField("host")
	}
	if c.Endpoint == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"postgres connection requires a database endpoint").WithField("endpoint")
	}
	return &postgresAdapter{c: c}, nil
}

// connString builds a pgx connection string from the descriptor.
func (a *postgresAdapter) connString() string {
	var b strings.Builder
	b.WriteString("postgres://")
	if a.c.User != "" {
		b.WriteString(url.User(a.c.User).String())
		if a.c.Password != "" {
			b.WriteString(":")
			b.WriteString(url.QueryEscape(a.c.Password.Value()))
		}
		b.WriteString("@")
	}
	b.WriteString(a.c.Host)
	if a.c.Port != 0 {
		fmt.Fprintf(&b, ":%d", a.c.Port)
	}
	b.WriteString("/")
	b.WriteString(a.c.Endpoint)

	if len(a.c.Extras) > 0 {
		q := url.Values{}
		for k, v := range a.c.Extras {
			q.Set(k, v)
		}
		b.WriteString("?")
		b.WriteString(q.Encode())
	}
	return b.String()
}

func (a *postgresAdapter) connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(a.connString())
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			"cannot parse postgres connection string")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"cannot open postgres pool")
	}
	return pool, nil
}

// Ping reports whether the database answers with the descriptor's
// credentials.
func (a *postgresAdapter) Ping(ctx context.Context) (bool, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return false, err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"postgres ping failed").WithDetail("host", a.c.Host)
	}
	return true, nil
}

// Exists reports whether the named relation exists. The object may be
// schema-qualified ("public.customer"); unqualified names resolve via the
// search path.
func (a *postgresAdapter) Exists(ctx context.Context, object string) (bool, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return false, err
	}
	defer pool.Close()

	var oid *uint32
	err = pool.QueryRow(ctx, "SELECT to_regclass($1)::oid", object).Scan(&oid)
	if err != nil {
		return false, flowerrors.Wrap(err, flowerrors.ErrorTypeConnection,
			"postgres relation lookup failed").WithDetail("object", object)
	}
	return oid != nil, nil
}
