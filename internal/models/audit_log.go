package models

// AuditAction represents the kind of mutation recorded in the audit trail
type AuditAction string

const (
	AuditActionInsert AuditAction = "insert"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditTable identifies the table an audit entry refers to
type AuditTable string

const (
	AuditTableExpenses    AuditTable = "expenses"
	AuditTableIncomes     AuditTable = "incomes"
	AuditTableBudgets     AuditTable = "budgets"
	AuditTableCreditCards AuditTable = "credit_cards"
	AuditTableInvoices    AuditTable = "invoices"
)

// AuditLog is an append-only record of create/update/delete actions against
// ledger tables.
type AuditLog struct {
	Base
	ProfileID uint        `gorm:"not null;index" json:"profile_id"`
	Action    AuditAction `gorm:"not null" json:"action"`
	Table     AuditTable  `gorm:"not null;column:table_name" json:"table"`
	RecordID  uint        `json:"record_id"`
	IPAddress string      `json:"ip_address"`
	Changes   string      `json:"changes,omitempty"`
}
