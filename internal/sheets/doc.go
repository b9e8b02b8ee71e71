// Package sheets provides a client wrapper for the Google Sheets API.
//
// The client wraps the Sheets v4 service with typed options and results,
// context support on every call, and consistent error wrapping. Cell values
// use USER_ENTERED input semantics, so strings that look like numbers,
// dates, or formulas are interpreted the way the Sheets UI would.
package sheets
