// Package database opens the MySQL connection pool shared by the
// repositories.
package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	maxConns     = 25
	connLifetime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// Open builds the DSN through the driver's own config type, opens the
// pool and pings it before handing it out.  parseTime maps DATE and
// DATETIME columns onto time.Time, and loc pins every scanned value to
// UTC so date arithmetic on check-in/check-out ranges never shifts
// across server timezones.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
