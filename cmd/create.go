/*
Copyright © 2025 The avharvest authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/avharvest/avharvest/internal/iodb"
	"github.com/avharvest/avharvest/internal/ioschema"
	"github.com/avharvest/avharvest/internal/iostore"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create record collections schema",
		Long: `Create tables of the three record collections from scratch.

With database.driver: postgres this command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates the tables using GORM AutoMigrate

With database.driver: sqlite it replaces the SQLite file with an
empty one.

Use --force to skip confirmation and drop existing data.

Examples:
  avharvest create
  avharvest create --force
  avharvest create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(
	cmd *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	switch cfg.Database.Driver {
	case "sqlite":
		err = createSQLite(ctx, force)
	case "postgres":
		err = createPostgres(ctx, force)
	default:
		err = iostore.UnknownDriverError(cfg.Database.Driver)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}

func createSQLite(ctx context.Context, force bool) error {
	path := cfg.SQLitePath()
	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return iostore.OpenError(path, err)
	}

	if exists && !force {
		gn.Warn("\nWarning: <em>%s</em> already exists.", path)
		gn.Warn("Creating schema will remove ALL existing records.")
		ok, err := confirm("Do you want to continue?")
		if err != nil {
			gn.Warn("Failed to read user input")
			return err
		}
		if !ok {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	if err = iostore.CreateSQLite(ctx, path); err != nil {
		return err
	}
	gn.Info("SQLite store is created at <em>%s</em>", path)
	gn.Info("Run <em>avharvest update</em> to collect records")
	return nil
}

func createPostgres(ctx context.Context, force bool) error {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	tables := ioschema.TableNames()
	hasTables, err := op.HasTables(ctx, tables...)
	if err != nil {
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains record tables.")
			gn.Warn("Creating schema will drop ALL existing records.")
			ok, err := confirm("Do you want to continue?")
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}
			if !ok {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}

		gn.Info("Dropping existing tables...")
		if err = op.DropTables(ctx, tables...); err != nil {
			return err
		}
	}

	gn.Info("Creating schema using GORM AutoMigrate...")
	if err = ioschema.NewManager(op).Create(ctx); err != nil {
		return err
	}

	gn.Info("\nDatabase schema creation complete!")
	gn.Info("Run <em>avharvest update</em> to collect records")
	return nil
}
