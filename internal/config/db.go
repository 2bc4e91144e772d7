package config

// Supported gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string
	DSN        string // full connection string, overrides the fields below
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or file path for sqlite
	Extras     string
}
