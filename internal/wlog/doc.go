// Package wlog wraps zerolog with the LogLevel/LogFormat enums and
// console/JSON writer switch the rest of the ambient stack uses, so
// internal/orchestrate and cmd/wotanest never call zerolog directly.
package wlog
