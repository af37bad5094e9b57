// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table
//   - catalog.go: ItemModel
//   - membership.go: MemberModel
//   - lending.go: LoanModel, FineModel and the joined loan details row
package models
