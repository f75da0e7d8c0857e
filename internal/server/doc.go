// Package server exposes the vote and reputation ledger over HTTP using echo.
// Acting identity arrives as an X-User-ID header set by the upstream auth
// gateway; session issuance is not handled here.
package server
