package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/atlekbai/timesheet/internal/model"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS Clients (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		Name TEXT(50) NOT NULL UNIQUE,
		ContactName TEXT(50) NULL,
		ContactPhone TEXT(12) NULL,
		ContactEmail TEXT(254) NULL,
		Note TEXT(500) NULL
	)`,

	`CREATE TABLE IF NOT EXISTS Projects (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		Name TEXT(100) NOT NULL,
		Description TEXT(500) NULL,
		HourlyWage REAL NOT NULL,
		ClientId INTEGER NULL,
		FOREIGN KEY(ClientId) REFERENCES Clients(Id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS Projects_Name ON Projects (Name)`,
	`CREATE INDEX IF NOT EXISTS Projects_ClientId ON Projects (ClientId)`,
	`CREATE INDEX IF NOT EXISTS Projects_ClientId_Id ON Projects (ClientId, Id)`,

	`CREATE TABLE IF NOT EXISTS Statuses (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		Name TEXT(50) NOT NULL UNIQUE,
		ColorArgb TEXT(7) NULL
	)`,

	`CREATE TABLE IF NOT EXISTS Timesheets (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		Date TEXT NOT NULL,
		StartTime TEXT NOT NULL,
		EndTime TEXT NOT NULL,
		Note TEXT(500) NULL,
		StatusId INTEGER NULL,
		ProjectId INTEGER NULL,
		FOREIGN KEY(StatusId) REFERENCES Statuses(Id) ON DELETE SET NULL,
		FOREIGN KEY(ProjectId) REFERENCES Projects(Id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS Timesheets_Date ON Timesheets (Date)`,
	`CREATE INDEX IF NOT EXISTS Timesheets_StatusId ON Timesheets (StatusId)`,
	`CREATE INDEX IF NOT EXISTS Timesheets_ProjectId ON Timesheets (ProjectId)`,

	`CREATE TABLE IF NOT EXISTS Invoices (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		Number TEXT NOT NULL,
		IssueDate TEXT NOT NULL,
		DueDate TEXT NOT NULL,
		ClientId INTEGER NULL,
		ProjectIdArray TEXT,
		TimesheetIdArray TEXT,
		Comments TEXT NULL,
		StatusId INTEGER NULL,
		FOREIGN KEY(ClientId) REFERENCES Clients(Id) ON DELETE SET NULL,
		FOREIGN KEY(StatusId) REFERENCES Statuses(Id) ON DELETE SET NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS Invoices_Number ON Invoices (Number)`,
	`CREATE INDEX IF NOT EXISTS Invoices_IssueDate ON Invoices (IssueDate)`,
	`CREATE INDEX IF NOT EXISTS Invoices_DueDate ON Invoices (DueDate)`,
	`CREATE INDEX IF NOT EXISTS Invoices_ClientId ON Invoices (ClientId)`,
	`CREATE INDEX IF NOT EXISTS Invoices_StatusId ON Invoices (StatusId)`,
	`CREATE INDEX IF NOT EXISTS Invoices_ClientId_StatusId ON Invoices (ClientId, StatusId)`,
	`CREATE INDEX IF NOT EXISTS Invoices_Status_DueDate ON Invoices (StatusId, DueDate)`,

	`CREATE TABLE IF NOT EXISTS Profiles (
		Id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		FirstName TEXT NOT NULL,
		LastName TEXT NOT NULL,
		Address TEXT NULL,
		Address2 TEXT NULL,
		City TEXT NULL,
		Province TEXT NULL,
		Country TEXT NULL,
		PostalCode TEXT NULL,
		Phone TEXT NOT NULL,
		Email TEXT NOT NULL,
		WebSite TEXT NULL,
		Image BLOB NULL
	)`,
}

// Fixed status ids.
const (
	StatusOpened   int64 = 1
	StatusInvoiced int64 = 2
	StatusPaid     int64 = 3
	StatusVoided   int64 = 4
)

// Statuses is the fixed status set seeded on every start.
var Statuses = []model.Status{
	{ID: StatusOpened, Name: "Opened", ColorArgb: "#FFD700"},
	{ID: StatusInvoiced, Name: "Invoiced", ColorArgb: "#B7410E"},
	{ID: StatusPaid, Name: "Paid", ColorArgb: "#7BB369"},
	{ID: StatusVoided, Name: "Voided", ColorArgb: "#001829"},
}

const upsertStatus = `
INSERT INTO Statuses (Id, Name, ColorArgb)
VALUES (?, ?, ?)
ON CONFLICT(Id) DO UPDATE SET
	Name = excluded.Name,
	ColorArgb = excluded.ColorArgb
WHERE Name != excluded.Name
   OR ColorArgb != excluded.ColorArgb
`

// Migrate creates missing tables and indexes and upserts the status set.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range ddl {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed statuses: %w", err)
	}
	defer tx.Rollback()

	for _, s := range Statuses {
		if _, err := tx.ExecContext(ctx, upsertStatus, s.ID, s.Name, s.ColorArgb); err != nil {
			return fmt.Errorf("seed status %s: %w", s.Name, err)
		}
	}
	return tx.Commit()
}
