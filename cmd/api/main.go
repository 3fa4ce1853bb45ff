package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/config"
	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/salary-engine/internal/handler/http"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/metrics"
	"github.com/cmlabs-hris/salary-engine/internal/repository/memory"
	"github.com/cmlabs-hris/salary-engine/internal/repository/postgresql"
	componentService "github.com/cmlabs-hris/salary-engine/internal/service/component"
	payrollService "github.com/cmlabs-hris/salary-engine/internal/service/payroll"
	rateSettingService "github.com/cmlabs-hris/salary-engine/internal/service/ratesetting"
	salaryService "github.com/cmlabs-hris/salary-engine/internal/service/salary"
)

const version = "v1.0.0"

type repositories struct {
	txManager  database.TxManager
	components component.ComponentRepository
	rates      ratesetting.RateSettingRepository
	salaries   salary.SalaryRepository
	payrolls   payroll.PayrollRepository
	directory  employee.Directory
	closeFn    func()
}

func main() {
	if err := run(); err != nil {
		slog.Error("Salary engine stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "salary-engine")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.closeFn()

	m := metrics.New()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	rateSvc := rateSettingService.NewRateSettingService(repos.rates)
	componentSvc := componentService.NewComponentService(repos.components)
	if cfg.Payroll.SeedDefaultComponents {
		if _, err := componentSvc.SeedDefaults(ctx, fixtures.GetDefaultComponents()); err != nil {
			return err
		}
	}
	salarySvc := salaryService.NewSalaryService(
		repos.txManager,
		repos.salaries,
		repos.components,
		rateSvc,
		repos.directory,
		m,
		cfg.Payroll.ApprovalPolicy,
	)
	payrollSvc := payrollService.NewPayrollService(
		repos.txManager,
		repos.payrolls,
		repos.salaries,
		m,
		cfg.Payroll.ApprovalPolicy,
	)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			Version:        version,
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		m,
		appHTTP.Handlers{
			Component:   appHTTP.NewComponentHandler(componentSvc),
			RateSetting: appHTTP.NewRateSettingHandler(rateSvc),
			Salary:      appHTTP.NewSalaryHandler(salarySvc),
			Payroll:     appHTTP.NewPayrollHandler(payrollSvc),
		},
	)

	scheduler := cron.NewScheduler()
	if cfg.Payroll.CronInterval > 0 {
		if err := cron.NewPayrollJobs(payrollSvc, cfg.Payroll.CronInterval).RegisterJobs(scheduler); err != nil {
			return err
		}
		scheduler.Start(ctx)
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "approval_policy", cfg.Payroll.ApprovalPolicy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return openMemory(cfg)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database migrations applied")
	}

	return repositories{
		txManager:  postgresql.NewTransactionManager(db),
		components: postgresql.NewComponentRepository(db),
		rates:      postgresql.NewRateSettingRepository(db),
		salaries:   postgresql.NewSalaryRepository(db),
		payrolls:   postgresql.NewPayrollRepository(db),
		directory:  postgresql.NewEmployeeDirectory(db),
		closeFn:    db.Close,
	}, nil
}

func openMemory(cfg *config.Config) (repositories, error) {
	store := memory.NewStore()
	directory := memory.NewEmployeeDirectory(store)

	if path := cfg.Database.EmployeeSeedFile; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to open employee seed file: %w", err)
		}
		employees, err := memory.LoadEmployees(f)
		f.Close()
		if err != nil {
			return repositories{}, err
		}
		directory.Seed(employees...)
		slog.Info("Employee directory seeded", "count", len(employees))
	}

	slog.Warn("Using in-memory storage, data is lost on restart")
	return repositories{
		txManager:  memory.NewTransactionManager(store),
		components: memory.NewComponentRepository(store),
		rates:      memory.NewRateSettingRepository(store),
		salaries:   memory.NewSalaryRepository(store),
		payrolls:   memory.NewPayrollRepository(store),
		directory:  directory,
		closeFn:    func() {},
	}, nil
}
