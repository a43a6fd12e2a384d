// Package auth guards the catalog's write operations.
//
// Two modes are supported:
//   - "none": the catalog is open, anyone may add or delete (default)
//   - "local": adding and deleting requires a session for a local user
//
// Users are created from the command line:
//
//	book-alchemy create-user -username admin -password '<12+ chars>'
//
// Sessions are stored in the catalog database through scs. The same
// session carries flash notices in both modes, so the session manager is
// always installed even when AUTH_MODE=none.
//
// # Configuration
//
//	AUTH_MODE=local
//	AUTH_SESSION_SECRET=<hex>     # CSRF key, generated if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_SECURE_COOKIES=true      # only when served over HTTPS
package auth
