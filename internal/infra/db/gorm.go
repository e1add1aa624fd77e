package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"storefront/internal/config"

	"github.com/XSAM/otelsql"
	gomysql "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens an instrumented *sql.DB and wraps it with gorm.
func Connect(cfg config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	driverName, system, dsn := dataSource(cfg)

	attrs := otelsql.WithAttributes(attribute.String("db.system", system))
	sqlDB, err := otelsql.Open(driverName, dsn, attrs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", system, err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := otelsql.RegisterDBStatsMetrics(sqlDB, attrs); err != nil {
		logger.Warn().Err(err).Msg("db stats metrics not registered")
	}

	gdb, err := Open(sqlDB, cfg.Driver, logger, cfg.SlowQuery)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", system, err)
	}

	logger.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("database connected")

	return gdb, nil
}

// Open wraps an existing connection pool with the gorm dialect for driver.
func Open(sqlDB *sql.DB, driver string, logger zerolog.Logger, slowQuery time.Duration) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{Conn: sqlDB})
	default:
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(logger, slowQuery),
		TranslateError: true,
		// foreign keys come from model.ReferentialPolicies
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return gdb, nil
}

func dataSource(cfg config.DatabaseConfig) (driverName, system, dsn string) {
	if cfg.Driver == "mysql" {
		if cfg.URL != "" {
			return "mysql", "mysql", cfg.URL
		}
		mc := gomysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", "mysql", mc.FormatDSN()
	}

	if cfg.URL != "" {
		return "pgx", "postgresql", cfg.URL
	}
	return "pgx", "postgresql", fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

// HealthChecker pings the pool behind gorm.
type HealthChecker struct {
	db *gorm.DB
}

func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
