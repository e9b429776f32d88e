package main

import (
	"github.com/spf13/cobra"
)

// AddConnectionFlags defines the database connection flags shared by serve, export and import.
func AddConnectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("host", "H", "localhost", "Database host")
	flags.IntP("port", "P", 0, "Database port (default: driver default)")
	flags.StringP("username", "u", "", "Database username")
	flags.StringP("password", "p", "", "Database password")
	flags.StringP("database", "d", "", "Database name, or file path for sqlite3")
	flags.StringP("driver", "D", "postgres", "Database driver (postgres, mysql, sqlite3)")
	flags.String("dsn", "", "Full connection string; overrides host, port, username, password and database")
	flags.Int("max-open-conns", 25, "Maximum open connections in the pool")

	flags.String("profile", "", "Name of the profile to use for default settings")
}

// AddStorageFlags defines the snapshot storage flags shared by export and import.
func AddStorageFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("storage", "s", "local", "Storage type (local, s3)")
	flags.StringP("path", "o", "", "Directory for local storage, key prefix for s3")
	flags.String("s3-bucket", "", "S3 bucket name")
	flags.String("s3-region", "", "S3 region")
}

// addProfileConfigFlags adds flags to a command for all fields in ProfileConfig.
// Used by 'profile create' and 'profile update'.
func addProfileConfigFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	// Defaults are empty so the profile file only stores what was given
	flags.String("host", "", "Database host")
	flags.Int("port", 0, "Database port (e.g., 5432 for PostgreSQL, 3306 for MySQL)")
	flags.String("username", "", "Database username")
	flags.String("password", "", "Database password (will be stored in plain text!)")
	flags.String("database", "", "Database name") // Required for create unless --dsn is given
	flags.String("driver", "", "Database driver (postgres, mysql, sqlite3)")
	flags.String("dsn", "", "Full connection string")
	flags.Int("max-open-conns", 0, "Maximum open connections in the pool")
}
