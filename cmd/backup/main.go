package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/config"
	"parentuni/internal/database"
	"parentuni/internal/repository"
	"parentuni/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportUser := exportCmd.String("user", "", "ID of the user to export (required)")
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup-<date>.json)")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importUser := importCmd.String("user", "", "ID of the user to restore into (required)")
	importInput := importCmd.String("input", "", "Input file path (required)")

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if *exportUser == "" {
			log.Fatal("export requires -user")
		}
		output := *exportOutput
		if output == "" {
			output = fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02"))
		}
		runExport(*exportUser, output)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importUser == "" {
			log.Fatal("import requires -user")
		}
		if *importInput == "" {
			log.Fatal("import requires -input")
		}
		runImport(*importUser, *importInput)

	default:
		printUsage()
		os.Exit(1)
	}
}

func runExport(userID, outputPath string) {
	backups := newBackupService()

	if err := backups.ExportToFile(userID, outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Backup for user %s written to %s\n", userID, outputPath)
}

func runImport(userID, inputPath string) {
	backups := newBackupService()

	if err := backups.ImportFromFile(userID, inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Backup %s restored for user %s\n", inputPath, userID)
}

// newBackupService wires the minimal stack the backup commands need
func newBackupService() *service.BackupService {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cat := catalog.MustDefault()
	stateRepo := repository.NewStateRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	states := service.NewStateService(cat, stateRepo)

	return service.NewBackupService(cat, states, noteRepo)
}

func printUsage() {
	fmt.Println("Usage: backup <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  export -user <id> [-output <file>]   Export a user's state and notes to JSON")
	fmt.Println("  import -user <id> -input <file>      Restore a user's state and notes from JSON")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  DB_TYPE           Database type: sqlite, postgres, mysql (default: sqlite)")
	fmt.Println("  DB_PATH           SQLite database file (default: ./parentuni.db)")
	fmt.Println("  DB_URL            Connection string for postgres/mysql")
	fmt.Println("  MIGRATIONS_PATH   Migration files directory (default: ./migrations)")
}
