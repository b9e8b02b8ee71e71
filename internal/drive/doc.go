// Package drive provides a client wrapper for the Google Drive API.
//
// The wrapper covers the Drive operations the server needs around
// spreadsheets: listing spreadsheet files (optionally scoped to a folder),
// moving a newly created spreadsheet into a folder, and managing sharing
// permissions.
package drive
