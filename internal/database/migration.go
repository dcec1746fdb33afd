package database

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

//go:embed migrations/*/up.sql migrations/*/down.sql
var migrationsFS embed.FS

var migrationVersionRegex = regexp.MustCompile(`^(\d+)_`)

type SchemaVersion uint64

type SchemaMigration struct {
	Version SchemaVersion `gorm:"primaryKey"`
}

// CurrentSchemaVersion returns the newest applied migration, or zero for a
// fresh database
func CurrentSchemaVersion(db *gorm.DB) (SchemaVersion, error) {
	var schemaMigration SchemaMigration

	err := db.
		Model(&SchemaMigration{}).
		Select("version").
		Order("version desc").
		Limit(1).
		Scan(&schemaMigration).
		Error

	return schemaMigration.Version, err
}

type Migration struct {
	Version SchemaVersion
	Name    string
}

func (migration Migration) UpSQL() (string, error) {
	return migration.read("up.sql")
}

func (migration Migration) DownSQL() (string, error) {
	return migration.read("down.sql")
}

func (migration Migration) read(file string) (string, error) {
	sql, err := fs.ReadFile(migrationsFS, fmt.Sprintf("migrations/%s/%s", migration.Name, file))
	if err != nil {
		return "", fmt.Errorf("failed to read %s for migration %s: %w", file, migration.Name, err)
	}

	return string(sql), nil
}

// Migrate applies every migration newer than the current schema version,
// each in its own transaction together with its schema_migrations row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	currentVersion, err := CurrentSchemaVersion(db)
	if err != nil {
		return err
	}

	migrations, err := MigrationsNewerThan(currentVersion)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		err := db.Transaction(func(tx *gorm.DB) error {
			sql, err := migration.UpSQL()
			if err != nil {
				return err
			}

			if err := tx.Exec(sql).Error; err != nil {
				return err
			}

			return tx.Create(&SchemaMigration{Version: migration.Version}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// Rollback reverts the newest applied migration. It is a no-op on a database
// without migrations.
func Rollback(db *gorm.DB) error {
	currentVersion, err := CurrentSchemaVersion(db)
	if err != nil {
		return err
	}
	if currentVersion == 0 {
		return nil
	}

	migrations, err := MigrationsNewerThan(currentVersion - 1)
	if err != nil {
		return err
	}
	if len(migrations) == 0 || migrations[0].Version != currentVersion {
		return fmt.Errorf("no migration found for schema version %d", currentVersion)
	}
	migration := migrations[0]

	return db.Transaction(func(tx *gorm.DB) error {
		sql, err := migration.DownSQL()
		if err != nil {
			return err
		}

		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}

		return tx.Delete(&SchemaMigration{}, "version = ?", migration.Version).Error
	})
}

// MigrationsNewerThan lists embedded migrations above minVersion in
// ascending version order
func MigrationsNewerThan(minVersion SchemaVersion) ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		match := migrationVersionRegex.FindStringSubmatch(entry.Name())
		if len(match) != 2 {
			return nil, fmt.Errorf("invalid migration directory name: %s", entry.Name())
		}

		versionInt, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s - %w", match[1], err)
		}

		version := SchemaVersion(versionInt)
		if version <= minVersion {
			continue
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    entry.Name(),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}
