package backup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "waterx/internal/errors"
	"waterx/internal/fs"
	"waterx/internal/notify"
)

type fakeBackend struct {
	mu         sync.Mutex
	backup     []byte
	fetchErr   error
	restoreErr error
	restored   [][]byte
}

func (f *fakeBackend) FetchBackup(context.Context) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.backup, nil
}

func (f *fakeBackend) Restore(_ context.Context, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = append(f.restored, append([]byte(nil), body...))
	return f.restoreErr
}

type harness struct {
	ctrl     *Controller
	backend  *fakeBackend
	fs       afero.Fs
	rec      *notify.Recorder
	reloads  int
	delays   []time.Duration
	states   []State
	reloadFn func(context.Context) error
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	h := &harness{
		backend: &fakeBackend{},
		fs:      fs.SetupTestDir(files),
		rec:     &notify.Recorder{},
	}
	reloader := ReloaderFunc(func(ctx context.Context) error {
		h.reloads++
		if h.reloadFn != nil {
			return h.reloadFn(ctx)
		}
		return nil
	})
	h.ctrl = NewController(h.backend, h.fs, reloader, h.rec, nil, Options{AppName: "waterx", Dir: "/exports"})
	h.ctrl.now = func() time.Time { return time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)) }
	h.ctrl.after = func(d time.Duration) <-chan time.Time {
		h.delays = append(h.delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	h.ctrl.Subscribe(func(s Snapshot) { h.states = append(h.states, s.State) })
	return h
}

const validBackup = `{
	"customers": [{"id": 1, "name": "Ada"}],
	"products": [],
	"orders": null,
	"extra": {"kept": true}
}`

func TestFileNameUsesUTCDay(t *testing.T) {
	h := newHarness(t, nil)
	// 23:30 at UTC-5 is already 2024-05-02 in UTC
	assert.Equal(t, "waterx-backup-2024-05-02.json", h.ctrl.FileName(h.ctrl.now()))
}

func TestExportWritesPrettyJSON(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.backup = []byte(`{"customers":[],"orders":[{"id":1}],"products":[]}`)

	path, err := h.ctrl.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/exports/waterx-backup-2024-05-02.json", path)

	content, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	want := "{\n  \"customers\": [],\n  \"orders\": [\n    {\n      \"id\": 1\n    }\n  ],\n  \"products\": []\n}"
	assert.Equal(t, want, string(content))

	assert.Equal(t, []string{"Backup exported successfully!"}, h.rec.Messages())
	assert.Equal(t, path, h.rec.Last().File)
	assert.Equal(t, []State{Exporting, Idle}, h.states)
	assert.Equal(t, path, h.ctrl.Snapshot().LastExport)
}

func TestExportKeepsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.backup = []byte(`{}`)

	require.NoError(t, h.ctrl.SelectFile("/in/b.json"))
	_, err := h.ctrl.Export(context.Background())
	require.NoError(t, err)

	snap := h.ctrl.Snapshot()
	assert.Equal(t, FileSelected, snap.State)
	assert.Equal(t, "/in/b.json", snap.File)
}

func TestExportFetchFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.fetchErr = apperrors.NewServerError(500, "")

	_, err := h.ctrl.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to export backup."}, h.rec.Messages())
	assert.Equal(t, notify.SeverityError, h.rec.Last().Severity)
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)

	exists, _ := afero.DirExists(h.fs, "/exports")
	assert.False(t, exists, "no file or directory on failure")
}

func TestExportMalformedPayload(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.backup = []byte(`{"customers":`)

	_, err := h.ctrl.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidJSON, apperrors.GetCode(err))
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)

	exists, _ := afero.DirExists(h.fs, "/exports")
	assert.False(t, exists, "nothing written for a payload that cannot be formatted")
}

func TestExportWriteFailureLeavesNoFile(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.backup = []byte(`{}`)
	h.ctrl.fsys = afero.NewReadOnlyFs(h.fs)

	_, err := h.ctrl.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeFileWrite, apperrors.GetCode(err))
	assert.Equal(t, []string{"Failed to write the backup file."}, h.rec.Messages())

	exists, _ := afero.Exists(h.fs, "/exports/waterx-backup-2024-05-02.json")
	assert.False(t, exists)
}

func TestExportRejectedWhileBusy(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.SelectFile("/b.json"))
	require.True(t, h.ctrl.RequestRestore())

	_, err := h.ctrl.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidState, apperrors.GetCode(err))
	assert.Equal(t, ConfirmPending, h.ctrl.Snapshot().State)
}

func TestSelectFile(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.ctrl.SelectFile(""))
	assert.Equal(t, Idle, h.ctrl.Snapshot().State, "empty path is ignored")

	require.NoError(t, h.ctrl.SelectFile("/a.json"))
	require.NoError(t, h.ctrl.SelectFile("/does/not/exist.json"))

	snap := h.ctrl.Snapshot()
	assert.Equal(t, FileSelected, snap.State)
	assert.Equal(t, "/does/not/exist.json", snap.File, "selection is replaced without validation")
}

func TestRequestRestoreWithoutFileWarns(t *testing.T) {
	h := newHarness(t, nil)

	assert.False(t, h.ctrl.RequestRestore())
	assert.Equal(t, []string{"Please select a backup file to restore."}, h.rec.Messages())
	assert.Equal(t, notify.SeverityWarning, h.rec.Last().Severity)
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
	assert.Empty(t, h.states)
}

func TestCancelKeepsSelection(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.ctrl.SelectFile("/b.json"))
	require.True(t, h.ctrl.RequestRestore())
	assert.Equal(t, "/b.json", h.ctrl.PendingFile())

	h.ctrl.Cancel()

	snap := h.ctrl.Snapshot()
	assert.Equal(t, FileSelected, snap.State)
	assert.Equal(t, "/b.json", snap.File)
	assert.Equal(t, "", h.ctrl.PendingFile())
	assert.Empty(t, h.backend.restored)
	assert.Empty(t, h.rec.Events())
}

func TestConfirmRestoresAndReloads(t *testing.T) {
	h := newHarness(t, map[string]string{"/in/b.json": validBackup})
	require.NoError(t, h.ctrl.SelectFile("/in/b.json"))
	require.True(t, h.ctrl.RequestRestore())

	require.NoError(t, h.ctrl.Confirm(context.Background()))

	require.Len(t, h.backend.restored, 1)
	assert.Equal(t,
		`{"customers":[{"id":1,"name":"Ada"}],"products":[],"orders":null,"extra":{"kept":true}}`,
		string(h.backend.restored[0]), "exact content, compacted, key order preserved")

	assert.Equal(t, []string{"System restored successfully! The application will now reload."}, h.rec.Messages())
	assert.Equal(t, []time.Duration{2 * time.Second}, h.delays)
	assert.Equal(t, 1, h.reloads)

	snap := h.ctrl.Snapshot()
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, "", snap.File)
	assert.Equal(t, []State{FileSelected, ConfirmPending, Restoring, Reloading, Idle}, h.states)
}

func TestConfirmFailures(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		restoreErr error
		message    string
		code       apperrors.ErrorCode
		posted     bool
	}{
		{"missing file", nil, nil, "Failed to read the backup file.", apperrors.ErrCodeFileRead, false},
		{"not json", map[string]string{"/in/b.json": "hello"}, nil, "Failed to parse backup file.", apperrors.ErrCodeInvalidJSON, false},
		{"empty file", map[string]string{"/in/b.json": ""}, nil, "Failed to parse backup file.", apperrors.ErrCodeInvalidJSON, false},
		{"missing orders", map[string]string{"/in/b.json": `{"customers":[],"products":[]}`}, nil, "Invalid backup file format.", apperrors.ErrCodeInvalidBackup, false},
		{"array document", map[string]string{"/in/b.json": `[1,2]`}, nil, "Invalid backup file format.", apperrors.ErrCodeInvalidBackup, false},
		{"server rejects", map[string]string{"/in/b.json": validBackup}, apperrors.NewServerError(500, "restore locked"), "restore locked", apperrors.ErrCodeServer, true},
		{"server no message", map[string]string{"/in/b.json": validBackup}, apperrors.NewServerError(502, ""), "Failed to restore backup.", apperrors.ErrCodeServer, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.files)
			h.backend.restoreErr = tt.restoreErr
			require.NoError(t, h.ctrl.SelectFile("/in/b.json"))
			require.True(t, h.ctrl.RequestRestore())

			err := h.ctrl.Confirm(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			assert.Equal(t, []string{tt.message}, h.rec.Messages())
			assert.Equal(t, notify.SeverityError, h.rec.Last().Severity)
			assert.Equal(t, tt.posted, len(h.backend.restored) == 1)
			assert.Equal(t, 0, h.reloads)

			snap := h.ctrl.Snapshot()
			assert.Equal(t, Idle, snap.State)
			assert.Equal(t, "", snap.File, "selection is dropped")
		})
	}
}

func TestConfirmDecodesFileAsText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		posted  string
	}{
		{"byte order mark", "\xEF\xBB\xBF" + `{"customers":[],"products":[],"orders":[]}`, `{"customers":[],"products":[],"orders":[]}`},
		{"invalid utf-8 in a value", "{\"customers\":[\"a\xffb\"],\"products\":[],\"orders\":[]}", "{\"customers\":[\"a\uFFFDb\"],\"products\":[],\"orders\":[]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]string{"/in/b.json": tt.content})
			require.NoError(t, h.ctrl.SelectFile("/in/b.json"))
			require.True(t, h.ctrl.RequestRestore())

			require.NoError(t, h.ctrl.Confirm(context.Background()))
			require.Len(t, h.backend.restored, 1)
			assert.Equal(t, tt.posted, string(h.backend.restored[0]))
			assert.Equal(t, []string{"System restored successfully! The application will now reload."}, h.rec.Messages())
		})
	}
}

func TestConfirmWithoutPendingIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	err := h.ctrl.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidState, apperrors.GetCode(err))
	assert.Empty(t, h.rec.Events())
}

func TestReloadErrorDoesNotFailRestore(t *testing.T) {
	h := newHarness(t, map[string]string{"/b.json": validBackup})
	h.reloadFn = func(context.Context) error { return errors.New("reload broke") }
	require.NoError(t, h.ctrl.SelectFile("/b.json"))
	require.True(t, h.ctrl.RequestRestore())

	require.NoError(t, h.ctrl.Confirm(context.Background()))
	assert.Equal(t, 1, h.reloads)
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
}

func TestReloadSkippedOnCancel(t *testing.T) {
	h := newHarness(t, map[string]string{"/b.json": validBackup})
	h.ctrl.after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }
	require.NoError(t, h.ctrl.SelectFile("/b.json"))
	require.True(t, h.ctrl.RequestRestore())

	ctx, cancel := context.WithCancel(context.Background())
	h.ctrl.Subscribe(func(s Snapshot) {
		if s.State == Reloading {
			cancel()
		}
	})

	err := h.ctrl.Confirm(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.reloads)
	assert.Len(t, h.backend.restored, 1)
	assert.Equal(t, Idle, h.ctrl.Snapshot().State)
}

func TestNegativeDelaySkipsWait(t *testing.T) {
	h := newHarness(t, map[string]string{"/b.json": validBackup})
	h.ctrl.opts.ReloadDelay = -1
	require.NoError(t, h.ctrl.SelectFile("/b.json"))
	require.True(t, h.ctrl.RequestRestore())

	require.NoError(t, h.ctrl.Confirm(context.Background()))
	assert.Empty(t, h.delays)
	assert.Equal(t, 1, h.reloads)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "confirm_pending", ConfirmPending.String())
	assert.True(t, Restoring.Busy())
	assert.False(t, FileSelected.Busy())
}
