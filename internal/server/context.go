package server

import (
	"context"
	"sync"

	"github.com/teemow/mcp-google-sheets/internal/drive"
	"github.com/teemow/mcp-google-sheets/internal/instrumentation"
	"github.com/teemow/mcp-google-sheets/internal/sheets"
)

// ServerContext holds the shared state for the MCP server. The Google
// API clients are created once at startup, after credential resolution,
// and handed to every tool handler through this context.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	sheetsClient *sheets.Client
	driveClient  *drive.Client

	// folderID is the Drive folder new spreadsheets are created in and
	// listings default to. Empty means the user's whole Drive.
	folderID string

	// readOnly disables every tool that mutates spreadsheet data.
	readOnly bool

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// Options configures a ServerContext.
type Options struct {
	SheetsClient *sheets.Client
	DriveClient  *drive.Client
	FolderID     string
	ReadOnly     bool
	Metrics      *instrumentation.Metrics
	AuditLogger  *instrumentation.AuditLogger
}

// NewServerContext creates a new server context.
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		sheetsClient: opts.SheetsClient,
		driveClient:  opts.DriveClient,
		folderID:     opts.FolderID,
		readOnly:     opts.ReadOnly,
		metrics:      opts.Metrics,
		auditLogger:  opts.AuditLogger,
	}
}

// Context returns the server's lifetime context. It is cancelled when
// Shutdown is called.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// SheetsClient returns the Google Sheets client.
func (sc *ServerContext) SheetsClient() *sheets.Client {
	return sc.sheetsClient
}

// DriveClient returns the Google Drive client.
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.driveClient
}

// FolderID returns the configured working folder, or "" if none.
func (sc *ServerContext) FolderID() string {
	return sc.folderID
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Metrics returns the metrics recorder, which may be nil when
// instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, which may be nil when audit
// logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
