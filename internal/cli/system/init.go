package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/storage"
	"github.com/julianstephens/habitledger/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing storage file before initialization."`
	Source string `help:"Storage path or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitledger storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying habits from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force only applies to file-based storage")
	}

	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if src, err := storage.ExpandPath(c.Source); err == nil {
			if absSrc, err := filepath.Abs(src); err == nil && absSrc == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		logger.Warn("Deleted existing storage", "path", dbPath)
		ctx.Printf("Deleted existing storage at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

// copyFrom reads the whole document from source, normalizes legacy records
// and writes it to the freshly initialized store.
func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := storage.Open(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	doc, err := src.ReadDocument()
	if err != nil {
		return fmt.Errorf("failed to read source document: %w", err)
	}
	doc, report := ledger.NormalizeDocument(doc)

	if err := ctx.Store.WriteDocument(doc); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	ctx.Printf("  Copied %d habit(s), %d check-in record(s)\n", report.Habits, report.Records)
	if report.LegacyMigrated > 0 {
		ctx.Printf("  Converted %d legacy record(s) to entries\n", report.LegacyMigrated)
	}
	return nil
}
