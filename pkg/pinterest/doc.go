// Package pinterest implements the board resource resolution pipeline:
// profile page-state extraction, board discovery, feed pagination and
// classification of raw pins into typed downloadable resources.
//
// All network access goes through Client, which carries the fixed
// browser header set the host requires and honors the configured
// request timeout. Blocking operations take a context.Context so a
// user-initiated stop terminates pagination promptly.
package pinterest
