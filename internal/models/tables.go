package models

// OwnedTables lists every table scoped by user_id. Application queries
// filter on user_id for each of these; the admin tool generates row-level
// security policies from the same list so the two authorization layers
// cannot drift apart.
var OwnedTables = []string{
	"properties",
	"tenants",
	"payments",
	"payment_histories",
	"maintenance_requests",
	"expenses",
	"activities",
}
