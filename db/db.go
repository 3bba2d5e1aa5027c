package db

import (
	"fmt"
	"time"

	"Gin_postgres_redis_local_library/logger"
	"Gin_postgres_redis_local_library/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options describes the Postgres connection.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (o Options) DSN() string {
	ssl := o.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		o.Host, o.User, o.Password, o.Name, o.Port, ssl,
	)
}

func ConnectDB(opts Options) *gorm.DB {
	conn, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		logger.Log.Fatalf("failed to get generic DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(conn); err != nil {
		logger.Log.Fatalf("failed to migrate models: %v", err)
	}
	logger.Log.WithField("host", opts.Host).WithField("db", opts.Name).Info("database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{}, &models.Credential{}, &models.Invite{},
		&models.Author{}, &models.Genre{}, &models.BookLanguage{},
		&models.Book{}, &models.BookInstance{},
	); err != nil {
		return err
	}

	// Borrowed lists filter on status 'o' and sort by due_back.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_on_loan_due_back
	  ON %s (borrower_id, due_back)
	  WHERE status = 'o';
	`, models.InstanceTable, models.InstanceTable)).Error; err != nil {
		return err
	}

	// A copy on loan always has a due date.
	if err := db.Exec(fmt.Sprintf(`
	  DO $$ BEGIN
	    ALTER TABLE %s ADD CONSTRAINT %s_due_back_when_on_loan
	    CHECK (status <> 'o' OR due_back IS NOT NULL);
	  EXCEPTION WHEN duplicate_object THEN NULL;
	  END $$;
	`, models.InstanceTable, models.InstanceTable)).Error; err != nil {
		return err
	}

	return nil
}
