// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Domain entities carry no GORM tags; the models here own the table mappings and
// the conversions to and from the catalog entities. Repositories read and write
// models only.
package models
