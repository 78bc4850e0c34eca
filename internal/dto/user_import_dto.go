package dto

// UserImportRow is one user record of a bulk import document.
type UserImportRow struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// UserImportRequest is the bulk import document. It is validated against a
// JSON schema before any row is persisted.
type UserImportRequest struct {
	Users []UserImportRow `json:"users"`
}

// UserImportResult reports the outcome of a bulk import.
type UserImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}
