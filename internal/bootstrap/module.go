package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"assetverify/internal/bootstrap/config"
	"assetverify/internal/bootstrap/database"
	"assetverify/internal/bootstrap/logging"
	domainaudit "assetverify/internal/domain/audit"
	cacheinfra "assetverify/internal/infrastructure/cache"
	lockinfra "assetverify/internal/infrastructure/lock"
	sqliterepo "assetverify/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "assetverify/internal/infrastructure/persistence/sqlite/uow"
	"assetverify/internal/ports"
	"assetverify/internal/usecase/audit"
	"assetverify/internal/usecase/inventory"
	"assetverify/internal/usecase/verification"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCycleRepository,
			fx.As(new(ports.CycleRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewRecordRepository,
			fx.As(new(ports.RecordRepository)),
		),
	),
	fx.Provide(sqliterepo.NewInventoryRepository),
	fx.Provide(
		func(r *sqliterepo.InventoryRepository) ports.AssetReader { return r },
		func(r *sqliterepo.InventoryRepository) ports.EmployeeReader { return r },
		func(r *sqliterepo.InventoryRepository) ports.LicenseReader { return r },
		func(r *sqliterepo.InventoryRepository) ports.WorkspaceReader { return r },
		func(r *sqliterepo.InventoryRepository) ports.SnapshotWriter { return r },
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideWriterLock),
	fx.Provide(provideVerificationService),
	fx.Provide(provideAuditCompiler),
	fx.Provide(inventory.NewImporter),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

// provideDatabase opens the store and migrates it, so every command sees the
// current schema.
func provideDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(logCtx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideApp(lc fx.Lifecycle, cfg config.Config, db *gorm.DB) *App {
	app := &App{
		Config: cfg,
		DB:     db,
	}
	lc.Append(fx.Hook{
		OnStop: app.Close,
	})
	return app
}

func provideWriterLock(lc fx.Lifecycle, ctx context.Context, cfg config.Config) ports.WriterLock {
	if strings.ToLower(strings.TrimSpace(cfg.Lock.Backend)) != "redis" {
		return lockinfra.NewLocalLock()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Lock.RedisAddr})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"redis writer lock configured",
		slog.String("addr", cfg.Lock.RedisAddr),
		slog.Duration("ttl", cfg.Lock.TTL),
	)
	return lockinfra.NewRedisLock(client, cfg.Lock.TTL)
}

type verificationParams struct {
	fx.In

	Config    config.Config
	Cycles    ports.CycleRepository
	Records   ports.RecordRepository
	Assets    ports.AssetReader
	Employees ports.EmployeeReader
	UoW       ports.UnitOfWork
	Lock      ports.WriterLock
}

func provideVerificationService(p verificationParams) *verification.Service {
	return verification.NewService(
		verification.Deps{
			Cycles:    p.Cycles,
			Records:   p.Records,
			Assets:    p.Assets,
			Employees: p.Employees,
			UoW:       p.UoW,
			Lock:      p.Lock,
		},
		verification.WithLostSentinel(p.Config.Verification.LostSentinel),
		verification.WithRollupWorkers(p.Config.Verification.RollupWorkers),
	)
}

type auditParams struct {
	fx.In

	Config       config.Config
	Assets       ports.AssetReader
	Licenses     ports.LicenseReader
	Workspace    ports.WorkspaceReader
	Verification *verification.Service
	Cache        ports.Cache
}

func provideAuditCompiler(p auditParams) *audit.Compiler {
	return audit.NewCompiler(
		audit.Deps{
			Assets:       p.Assets,
			Licenses:     p.Licenses,
			Workspace:    p.Workspace,
			Verification: p.Verification,
			Cache:        p.Cache,
		},
		audit.WithThresholds(auditThresholds(p.Config.Audit)),
	)
}

func auditThresholds(cfg config.AuditConfig) domainaudit.Thresholds {
	return domainaudit.Thresholds{
		ExpiringWindow:  time.Duration(cfg.ExpiringWindowDays) * 24 * time.Hour,
		UtilizationHigh: cfg.UtilizationHigh,
		UtilizationLow:  cfg.UtilizationLow,
		PendingBacklog:  cfg.PendingBacklog,
	}
}
