// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// A single Store type implements every interface so that Transaction can
// hand callers a fully scoped store bound to one database transaction.
package gorm
