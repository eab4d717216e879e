package service

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postboard/app/config"
	"postboard/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

var (
	errCancelled  = errors.New("operation cancelled")
	errNoDatabase = errors.New("no database exists")
)

// HandleCommand runs a db subcommand and returns an exit code. The subcommand takes
// the same flags and environment as serve, so both act on the same database.
func HandleCommand(args []string) int {
	return runDBCommand(args, os.Stdin, os.Stdout)
}

func runDBCommand(args []string, in io.Reader, out io.Writer) int {
	if len(args) < 1 {
		printDbHelp(out)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "help":
		printDbHelp(out)
		return 0
	case "init", "backup", "restore", "clean":
	default:
		fmt.Fprintf(out, "Unknown db command: %s\n\n", cmd)
		printDbHelp(out)
		return 1
	}

	cfg, err := config.Load(args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	if cfg.Store != config.StoreBadger {
		fmt.Fprintf(out, "Error: db %s only manages the badger store, but the store is %q\n", cmd, cfg.Store)
		return 1
	}
	if cfg.DBPath == "" {
		fmt.Fprintln(out, "Error: --db-path must not be empty")
		return 1
	}

	admin := newDBAdmin(cfg.DBPath, in, out)
	switch cmd {
	case "init":
		err = admin.create()
	case "backup":
		_, err = admin.backup()
	case "restore":
		if len(cfg.Args) < 1 {
			fmt.Fprintln(out, "Error: backup file path required for restore")
			return 1
		}
		err = admin.restore(cfg.Args[0])
	case "clean":
		err = admin.clean()
	}

	if errors.Is(err, errCancelled) {
		fmt.Fprintln(out, "Operation cancelled")
		return 1
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printDbHelp(out io.Writer) {
	fmt.Fprintln(out, `Usage: postboard db <command> [flags] [file]

Commands:
  init                            Initialize a new empty database
  backup                          Create a backup of the database
  restore <file>                  Restore database from backup
  clean                           Delete the database
  help                            Display this help message

Flags are the serve flags; --db-path (or $POSTBOARD_DB_PATH, default data/badger)
selects the database. Only the badger store is managed here.`)
}

// dbAdmin runs maintenance against the Badger directory at path. Backups go to a
// backups directory next to it.
type dbAdmin struct {
	path string
	in   *bufio.Reader
	out  io.Writer
}

func newDBAdmin(path string, in io.Reader, out io.Writer) *dbAdmin {
	return &dbAdmin{path: path, in: bufio.NewReader(in), out: out}
}

func (a *dbAdmin) backupDir() string {
	return filepath.Join(filepath.Dir(a.path), "backups")
}

func (a *dbAdmin) exists() bool {
	_, err := os.Stat(a.path)
	return err == nil
}

// confirm asks a yes/no question; anything but y or Y is a no.
func (a *dbAdmin) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, _ := a.in.ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

func (a *dbAdmin) create() error {
	if a.exists() {
		fmt.Fprintf(a.out, "Database already exists at %s. Use 'clean' first if you want to reinitialize.\n", a.path)
		return nil
	}
	if err := os.MkdirAll(a.path, 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := repositories.OpenBadger(a.path)
	if err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Database initialized at %s\n", a.path)
	return nil
}

func (a *dbAdmin) clean() error {
	if !a.exists() {
		fmt.Fprintln(a.out, "Database is already clean (does not exist)")
		return nil
	}
	if !a.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		return errCancelled
	}
	if err := os.RemoveAll(a.path); err != nil {
		return fmt.Errorf("clean database: %w", err)
	}

	fmt.Fprintln(a.out, "Database cleaned successfully")
	return nil
}

// backup writes a full backup of the database and returns the backup file's path.
func (a *dbAdmin) backup() (string, error) {
	if !a.exists() {
		return "", fmt.Errorf("%w at %s", errNoDatabase, a.path)
	}
	if err := os.MkdirAll(a.backupDir(), 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	db, err := repositories.OpenBadger(a.path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	name := filepath.Join(a.backupDir(), fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if _, err := db.Backup(f, 0); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("backup database: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}

	fmt.Fprintf(a.out, "Database backed up successfully to %s\n", name)
	return name, nil
}

// restore replaces the database with the contents of backupFile, asking first when a
// database already exists.
func (a *dbAdmin) restore(backupFile string) error {
	info, err := os.Stat(backupFile)
	if err != nil {
		return fmt.Errorf("backup file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if a.exists() {
		if !a.confirm("Existing database found. Do you want to replace it?") {
			return errCancelled
		}
		if err := os.RemoveAll(a.path); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(a.path, 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	db, err := repositories.OpenBadger(a.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := loadBackup(db, f); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}

	fmt.Fprintln(a.out, "Database restored successfully")
	return nil
}

// loadBackup loads a backup stream into db. Badger panics on some corrupt input.
func loadBackup(db *badger.DB, r io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("corrupt backup: %v", p)
		}
	}()
	return db.Load(r, 256)
}
