// Package backup exports the backend's full data snapshot to a local JSON
// file and restores a previously exported file, behind an explicit
// confirmation step.
package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
	"waterx/internal/logger"
	"waterx/internal/notify"
)

const (
	msgExported       = "Backup exported successfully!"
	msgExportFailed   = "Failed to export backup."
	msgWriteFailed    = "Failed to write the backup file."
	msgSelectFile     = "Please select a backup file to restore."
	msgReadFailed     = "Failed to read the backup file."
	msgRestoreFailed  = "Failed to restore backup."
	msgRestored       = "System restored successfully! The application will now reload."
	defaultReloadWait = 2 * time.Second
)

// State is the controller's position in the export/restore workflow
type State int

const (
	Idle State = iota
	Exporting
	FileSelected
	ConfirmPending
	Restoring
	Reloading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Exporting:
		return "exporting"
	case FileSelected:
		return "file_selected"
	case ConfirmPending:
		return "confirm_pending"
	case Restoring:
		return "restoring"
	case Reloading:
		return "reloading"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Busy reports whether an operation is in flight
func (s State) Busy() bool {
	return s == Exporting || s == Restoring || s == Reloading
}

// Snapshot is what subscribers observe
type Snapshot struct {
	State      State
	File       string // selected backup file, "" when none
	LastExport string // path of the most recent successful export
}

// Backend is the part of the API client the controller needs
type Backend interface {
	FetchBackup(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, body []byte) error
}

// Reloader performs a full application state reset after a restore
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader
type ReloaderFunc func(ctx context.Context) error

// Reload calls f(ctx)
func (f ReloaderFunc) Reload(ctx context.Context) error { return f(ctx) }

// Options configures a Controller
type Options struct {
	AppName     string        // file name prefix, e.g. "waterx"
	Dir         string        // export directory
	ReloadDelay time.Duration // pause between restore success and reload; <0 means none
}

// Controller drives the export/restore workflow
type Controller struct {
	backend  Backend
	fsys     afero.Fs
	reloader Reloader
	notifier notify.Publisher
	log      logger.Logger
	opts     Options

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	mu         sync.Mutex
	state      State
	file       string
	lastExport string
	nextSubID  int
	subs       map[int]func(Snapshot)
}

// NewController creates a controller in the Idle state
func NewController(backend Backend, fsys afero.Fs, reloader Reloader, notifier notify.Publisher, log logger.Logger, opts Options) *Controller {
	if log == nil {
		log = logger.NewNullLogger()
	}
	if opts.AppName == "" {
		opts.AppName = "waterx"
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.ReloadDelay == 0 {
		opts.ReloadDelay = defaultReloadWait
	}
	return &Controller{
		backend:  backend,
		fsys:     fsys,
		reloader: reloader,
		notifier: notifier,
		log:      log,
		opts:     opts,
		now:      time.Now,
		after:    time.After,
		subs:     make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for every state change
func (c *Controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// FileName returns the export file name for the given instant (UTC day)
func (c *Controller) FileName(t time.Time) string {
	return fmt.Sprintf("%s-backup-%s.json", c.opts.AppName, t.UTC().Format("2006-01-02"))
}

// Export downloads the backend snapshot and writes it, pretty-printed, to
// the export directory. A selected file survives the export.
func (c *Controller) Export(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != Idle && c.state != FileSelected {
		st := c.state
		c.mu.Unlock()
		return "", invalidTransition("export", st)
	}
	prev := c.state
	c.state = Exporting
	c.mu.Unlock()
	c.publish()

	op := c.log.StartOperation("export")

	raw, err := c.backend.FetchBackup(ctx)
	if err != nil {
		op.Fail("fetch failed", "error", err)
		return "", c.exportFailed(prev, apperrors.Message(err, msgExportFailed), err)
	}

	pretty, err := indent(raw)
	if err != nil {
		op.Fail("backend returned malformed JSON", "error", err)
		wrapped := apperrors.NewDataError(apperrors.ErrCodeInvalidJSON, msgExportFailed, err)
		return "", c.exportFailed(prev, msgExportFailed, wrapped)
	}

	if err := fs.CheckWriteAccess(c.fsys, c.opts.Dir); err != nil {
		op.Fail("backup directory not writable", "dir", c.opts.Dir, "error", err)
		wrapped := apperrors.NewDataError(apperrors.ErrCodeFileWrite, msgWriteFailed, err)
		return "", c.exportFailed(prev, msgWriteFailed, wrapped)
	}

	path := filepath.Join(c.opts.Dir, c.FileName(c.now()))
	if err := fs.WriteFileAtomic(c.fsys, path, pretty, 0o644); err != nil {
		op.Fail("write failed", "file", path, "error", err)
		wrapped := apperrors.NewDataError(apperrors.ErrCodeFileWrite, msgWriteFailed, err)
		return "", c.exportFailed(prev, msgWriteFailed, wrapped)
	}

	size := int64(len(pretty))
	op.Complete("backup written", "file", path, "size", humanize.Bytes(uint64(size)))

	c.mu.Lock()
	c.state = prev
	c.lastExport = path
	c.mu.Unlock()
	c.publish()

	c.notify(notify.Success(notify.EventExportCompleted, msgExported).WithFile(path, size))
	return path, nil
}

func (c *Controller) exportFailed(prev State, msg string, err error) error {
	c.mu.Lock()
	c.state = prev
	c.mu.Unlock()
	c.publish()
	c.notify(notify.Failure(notify.EventExportFailed, msg, err))
	return err
}

// SelectFile records path as the file to restore. The file is not read or
// validated until Confirm. An empty path leaves the selection unchanged.
func (c *Controller) SelectFile(path string) error {
	if path == "" {
		return nil
	}

	c.mu.Lock()
	if c.state != Idle && c.state != FileSelected {
		st := c.state
		c.mu.Unlock()
		return invalidTransition("select file", st)
	}
	c.file = path
	c.state = FileSelected
	c.mu.Unlock()

	c.log.Debug("Backup file selected", "file", path)
	c.publish()
	return nil
}

// RequestRestore opens the confirmation step for the selected file. It
// returns false (and warns the user) when no file is selected.
func (c *Controller) RequestRestore() bool {
	c.mu.Lock()
	switch {
	case c.state == FileSelected:
		c.state = ConfirmPending
		c.mu.Unlock()
		c.publish()
		return true
	case c.state == ConfirmPending:
		c.mu.Unlock()
		return true
	case c.state.Busy():
		st := c.state
		c.mu.Unlock()
		c.log.Debug("Restore request ignored", "state", st.String())
		return false
	default:
		c.mu.Unlock()
		c.notify(notify.Warning(notify.EventRestoreNoFile, msgSelectFile))
		return false
	}
}

// PendingFile returns the file awaiting confirmation, or ""
func (c *Controller) PendingFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmPending {
		return ""
	}
	return c.file
}

// Cancel dismisses the confirmation step, keeping the selection
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.state != ConfirmPending {
		c.mu.Unlock()
		return
	}
	c.state = FileSelected
	c.mu.Unlock()
	c.publish()
}

// Confirm restores the selected file: read, parse, check required keys,
// POST to the backend, then reload the application after the configured
// delay. Any failure returns the controller to Idle with no selection.
func (c *Controller) Confirm(ctx context.Context) error {
	c.mu.Lock()
	if c.state != ConfirmPending {
		st := c.state
		c.mu.Unlock()
		return invalidTransition("confirm restore", st)
	}
	path := c.file
	c.state = Restoring
	c.mu.Unlock()
	c.publish()

	op := c.log.StartOperation("restore")

	content, err := fs.ReadText(c.fsys, path)
	if err != nil {
		op.Fail("read failed", "file", path, "error", err)
		return c.restoreFailed(msgReadFailed, apperrors.NewDataError(apperrors.ErrCodeFileRead, msgReadFailed, err))
	}

	if err := Validate([]byte(content)); err != nil {
		op.Fail("validation failed", "file", path, "error", err)
		return c.restoreFailed(apperrors.Message(err, msgParseFailed), err)
	}

	body, err := compact([]byte(content))
	if err != nil {
		op.Fail("compact failed", "file", path, "error", err)
		return c.restoreFailed(msgParseFailed, err)
	}

	if err := c.backend.Restore(ctx, body); err != nil {
		op.Fail("restore request failed", "file", path, "error", err)
		return c.restoreFailed(apperrors.Message(err, msgRestoreFailed), err)
	}

	op.Complete("restore accepted", "file", path, "size", humanize.Bytes(uint64(len(body))))

	c.mu.Lock()
	c.state = Reloading
	c.mu.Unlock()
	c.publish()
	c.notify(notify.Success(notify.EventRestoreCompleted, msgRestored).WithFile(path, int64(len(content))))

	return c.reload(ctx)
}

func (c *Controller) reload(ctx context.Context) error {
	defer c.reset()

	if c.opts.ReloadDelay > 0 {
		select {
		case <-c.after(c.opts.ReloadDelay):
		case <-ctx.Done():
			c.log.Warn("Reload skipped", "error", ctx.Err())
			return ctx.Err()
		}
	}

	if c.reloader == nil {
		return nil
	}
	if err := c.reloader.Reload(ctx); err != nil {
		c.log.Warn("Reload after restore failed", "error", err)
	}
	return nil
}

func (c *Controller) restoreFailed(msg string, err error) error {
	c.reset()
	c.notify(notify.Failure(notify.EventRestoreFailed, msg, err))
	return err
}

// reset returns to Idle and drops the selection
func (c *Controller) reset() {
	c.mu.Lock()
	c.state = Idle
	c.file = ""
	c.mu.Unlock()
	c.publish()
}

func (c *Controller) notify(e *notify.Event) {
	if c.notifier != nil {
		c.notifier.Notify(e)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, File: c.file, LastExport: c.lastExport}
}

func (c *Controller) publish() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func invalidTransition(action string, st State) error {
	return apperrors.NewInternalError(apperrors.ErrCodeInvalidState,
		fmt.Sprintf("cannot %s while %s", action, st), nil)
}
