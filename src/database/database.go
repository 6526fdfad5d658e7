package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/finratio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateCompaniesTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS companies (
		corp_code TEXT PRIMARY KEY,
		corp_name TEXT NOT NULL,
		stock_code TEXT DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS financials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		corp_code TEXT NOT NULL,
		bsns_year TEXT NOT NULL,
		sj_div TEXT NOT NULL,
		sj_nm TEXT,
		account_nm TEXT NOT NULL,
		thstrm_nm TEXT,
		thstrm_amount REAL DEFAULT 0,
		frmtrm_nm TEXT,
		frmtrm_amount REAL DEFAULT 0,
		bfefrmtrm_nm TEXT,
		bfefrmtrm_amount REAL DEFAULT 0,
		ord INTEGER DEFAULT 0,
		currency TEXT,
		rcept_no TEXT,
		reprt_code TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(corp_code) REFERENCES companies(corp_code),
		UNIQUE(corp_code, bsns_year, sj_div, account_nm)
	);

	CREATE INDEX IF NOT EXISTS idx_financials_corp_year ON financials(corp_code, bsns_year);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

func migrateCompaniesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='companies'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'companies' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'companies' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'companies' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'companies' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(companies)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'companies'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'companies': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'companies'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'companies': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'companies'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'companies': %v", err)
		}
		return
	}

	if _, ok := columnExists["stock_code"]; !ok {
		_, err := DB.Exec("ALTER TABLE companies ADD COLUMN stock_code TEXT DEFAULT ''")
		if err != nil {
			logger.L.Error("Error adding 'stock_code' column to 'companies' table", "error", err)
		} else {
			logger.L.Info("Added 'stock_code' column to 'companies' table")
		}
	}

	if _, ok := columnExists["created_at"]; !ok {
		_, err := DB.Exec("ALTER TABLE companies ADD COLUMN created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
		if err != nil {
			logger.L.Error("Error adding 'created_at' column to 'companies' table", "error", err)
		} else {
			logger.L.Info("Added 'created_at' column to 'companies' table")
		}
	}
	if _, ok := columnExists["updated_at"]; !ok {
		_, err := DB.Exec("ALTER TABLE companies ADD COLUMN updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
		if err != nil {
			logger.L.Error("Error adding 'updated_at' column to 'companies' table", "error", err)
		} else {
			logger.L.Info("Added 'updated_at' column to 'companies' table")
		}
	}
}
