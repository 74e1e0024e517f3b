package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tingle/internal/config"
	"tingle/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is what ApplySchema does for a given configuration.
type SchemaPlan struct {
	Mode           string
	Environment    string
	RunSQL         bool
	RunAutoMigrate bool
}

// MigrationState pairs a registered migration with whether it has been applied.
type MigrationState struct {
	Migration
	Applied bool
}

// SchemaStatus is the plan plus the live state of the database.
type SchemaStatus struct {
	SchemaPlan
	Migrations []MigrationState
	// Unknown lists applied versions this binary does not ship.
	Unknown []int
	// MissingTables lists entity tables absent from the database.
	MissingTables []string
}

// Pending returns the registered migrations not yet applied, in version order.
func (s *SchemaStatus) Pending() []Migration {
	var pending []Migration
	for _, m := range s.Migrations {
		if !m.Applied {
			pending = append(pending, m.Migration)
		}
	}
	return pending
}

// AppliedCount returns how many registered migrations are applied.
func (s *SchemaStatus) AppliedCount() int {
	return len(s.Migrations) - len(s.Pending())
}

// protectedEnv covers the environments where AutoMigrate may not alter tables
// on its own: production and its staging rehearsal.
func protectedEnv(cfg *config.Config) bool {
	if cfg.IsProduction() {
		return true
	}
	env := strings.ToLower(strings.TrimSpace(cfg.Env))
	return env == "staging" || env == "stage"
}

// PlanSchema resolves DB_SCHEMA_MODE against the environment. Hybrid always
// runs the SQL migrations and adds AutoMigrate outside protected environments;
// auto in a protected environment needs DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Mode:        strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		Environment: cfg.Env,
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	protected := protectedEnv(cfg)

	switch plan.Mode {
	case SchemaModeSQL:
		plan.RunSQL = true
	case SchemaModeAuto:
		if protected && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.RunAutoMigrate = true
	case SchemaModeHybrid:
		plan.RunSQL = true
		plan.RunAutoMigrate = !protected
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// AutoMigrate syncs every persistent model with GORM.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the database up to date according to the plan. When only
// SQL migrations run, entity tables they did not create are reported.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.RunSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.RunAutoMigrate {
		middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate",
			slog.String("mode", plan.Mode), slog.String("env", plan.Environment))
		if err := AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		return nil
	}

	if missing := missingTables(db.WithContext(ctx)); len(missing) > 0 {
		middleware.Logger.WarnContext(ctx, "schema is missing entity tables",
			slog.String("mode", plan.Mode), slog.Any("tables", missing))
	}
	return nil
}

// GetSchemaStatus reports the plan, every shipped migration with its applied
// state, and entity tables the database lacks.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	return schemaStatus(ctx, db, NewMigrationStore(db), GetMigrations(), plan)
}

func schemaStatus(ctx context.Context, db *gorm.DB, store MigrationStore, registered []Migration, plan SchemaPlan) (*SchemaStatus, error) {
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}

	status := &SchemaStatus{SchemaPlan: plan}
	shipped := make(map[int]bool, len(registered))
	for _, m := range registered {
		shipped[m.Version] = true
		status.Migrations = append(status.Migrations, MigrationState{Migration: m, Applied: appliedSet[m.Version]})
	}
	for _, version := range applied {
		if !shipped[version] {
			status.Unknown = append(status.Unknown, version)
		}
	}
	status.MissingTables = missingTables(db.WithContext(ctx))
	return status, nil
}

func missingTables(db *gorm.DB) []string {
	var missing []string
	for _, table := range PersistentTables() {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, table)
		}
	}
	return missing
}
