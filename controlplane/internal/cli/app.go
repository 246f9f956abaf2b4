package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vpnaas/controlplane/internal/config"
	"vpnaas/controlplane/internal/infra"
	"vpnaas/controlplane/internal/logging"
	"vpnaas/controlplane/internal/metrics"
	"vpnaas/controlplane/internal/netinfo"
	"vpnaas/controlplane/internal/repository"
	"vpnaas/controlplane/internal/service"
	"vpnaas/controlplane/internal/validation"
)

type globalOptions struct {
	ConfigPath  string
	Output      string
	MetricsFile string
}

// app is everything a command needs, built from the config file.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	sqlDB    *sql.DB
	registry *prometheus.Registry
	mapper   *service.Mapper
	svc      *service.ConnectionService
	opts     *globalOptions
}

type networkSource interface {
	validation.RouterLookup
	validation.SubnetLookup
}

func newApp(opts *globalOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: stderr})
	if err != nil {
		return nil, err
	}

	var network networkSource
	if cfg.Network.APIURL != "" {
		network = netinfo.NewClient(cfg.Network.APIURL, cfg.Network.Token)
	} else {
		inv, err := netinfo.LoadInventory(cfg.Network.Inventory)
		if err != nil {
			return nil, fmt.Errorf("load inventory: %w", err)
		}
		network = inv
	}

	backend, err := validation.NewBackend(cfg.Backend, validation.Deps{
		Routers:        network,
		Subnets:        network,
		Resolver:       net.DefaultResolver,
		ResolveTimeout: cfg.Resolver.Timeout,
	})
	if err != nil {
		return nil, err
	}

	db, err := infra.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	mapper := service.NewMapper(repository.NewGormRepository(db), cfg.Ranges(), log, collector)

	log.WithFields(logrus.Fields{
		"backend":   backend.Name,
		"db_driver": cfg.Database.Driver,
	}).Debug("control plane ready")

	return &app{
		cfg:      cfg,
		log:      log,
		sqlDB:    sqlDB,
		registry: registry,
		mapper:   mapper,
		svc:      service.NewConnectionService(backend, mapper, log, collector),
		opts:     opts,
	}, nil
}

// Close writes the metrics textfile when one was requested and closes
// the database.
func (a *app) Close() error {
	if a.opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.opts.MetricsFile, a.registry); err != nil {
			a.log.WithError(err).Warn("write metrics textfile")
		}
	}
	return a.sqlDB.Close()
}

func (a *app) print(w io.Writer, v any) error {
	switch a.opts.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", a.opts.Output)
	}
}
