package page

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterx/internal/api"
	apperrors "waterx/internal/errors"
	"waterx/internal/notify"
	"waterx/internal/profile"
	"waterx/internal/session"
	"waterx/internal/settings"
)

type fakeAPI struct {
	logo      string
	getErr    error
	putErr    error
	puts      []string
	employees []api.Employee
	listErr   error
	profile   *api.ProfileResult
	gotUpd    *api.ProfileUpdate
}

func (f *fakeAPI) GetSetting(_ context.Context, key string) (*api.Setting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &api.Setting{Key: key, Value: f.logo}, nil
}

func (f *fakeAPI) PutSetting(_ context.Context, key, value string) (*api.Setting, error) {
	f.puts = append(f.puts, value)
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.logo = value
	return &api.Setting{Key: key, Value: value}, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, _ string, upd api.ProfileUpdate) (*api.ProfileResult, error) {
	f.gotUpd = &upd
	return f.profile, nil
}

func (f *fakeAPI) ListEmployees(context.Context) ([]api.Employee, error) {
	return f.employees, f.listErr
}

type memIdentity struct{ user *session.User }

func (m *memIdentity) Current() *session.User { return m.user }
func (m *memIdentity) Login(id, name, role string) error {
	m.user = &session.User{ID: id, Name: name, Role: role}
	return nil
}

type fixture struct {
	api   *fakeAPI
	store *settings.Store
	ident *memIdentity
	rec   *notify.Recorder
	page  *Page
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api: &fakeAPI{
			logo:      "https://cdn.example.com/logo.png",
			employees: []api.Employee{{ID: "emp-1", Name: "Ada", Email: "ada@example.com", Role: "Admin"}},
			profile:   &api.ProfileResult{Name: "Ada L", Role: "Admin"},
		},
		ident: &memIdentity{user: &session.User{ID: "emp-1", Name: "Ada", Role: "Admin"}},
		rec:   &notify.Recorder{},
	}
	f.store = settings.NewStore(f.api, f.rec, nil)
	f.page = New(f.store, profile.NewService(f.api, f.ident, f.rec, nil), nil)
	t.Cleanup(f.page.Close)
	return f
}

func TestLoadPrefillsBothForms(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.page.Load(context.Background()))

	assert.Equal(t, profile.Form{Name: "Ada", Email: "ada@example.com"}, f.page.ProfileForm())
	assert.Equal(t, BrandingForm{LogoURL: "https://cdn.example.com/logo.png"}, f.page.BrandingForm())
	assert.Empty(t, f.rec.Events())
}

func TestLoadEmployeeFailureStillFetchesLogo(t *testing.T) {
	f := newFixture(t)
	f.api.listErr = errors.New("down")

	assert.Error(t, f.page.Load(context.Background()))
	assert.Equal(t, "https://cdn.example.com/logo.png", f.store.LogoURL())
	assert.Equal(t, profile.Form{}, f.page.ProfileForm())
}

func TestBrandingResyncOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.page.Load(context.Background()))

	f.page.SetBrandingForm(BrandingForm{LogoURL: "https://draft/edit.png"})

	// Same stored value again: the user's edit survives
	f.store.FetchLogoURL(context.Background())
	assert.Equal(t, "https://draft/edit.png", f.page.BrandingForm().LogoURL)

	// A different stored value overwrites the form
	f.api.logo = "https://cdn.example.com/new.png"
	f.store.FetchLogoURL(context.Background())
	assert.Equal(t, "https://cdn.example.com/new.png", f.page.BrandingForm().LogoURL)
}

func TestBrandingNotResetToEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.page.Load(context.Background()))

	f.page.SetBrandingForm(BrandingForm{LogoURL: "https://draft/edit.png"})
	f.api.getErr = apperrors.NewServerError(404, "")
	f.store.FetchLogoURL(context.Background())

	assert.Equal(t, "https://draft/edit.png", f.page.BrandingForm().LogoURL)
}

func TestSyncFromExistingStoreState(t *testing.T) {
	f := newFixture(t)
	f.store.FetchLogoURL(context.Background())

	p := New(f.store, profile.NewService(f.api, f.ident, nil, nil), nil)
	defer p.Close()
	assert.Equal(t, "https://cdn.example.com/logo.png", p.BrandingForm().LogoURL)
}

func TestSubmitBranding(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid url", "https://cdn.example.com/x.png", false},
		{"empty clears", "", false},
		{"not a url", "logo.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.page.SetBrandingForm(BrandingForm{LogoURL: tt.value})

			err := f.page.SubmitBranding(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "Please enter a valid URL.", apperrors.Message(err, ""))
				assert.Empty(t, f.api.puts, "invalid input never reaches the backend")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.value}, f.api.puts)
			assert.Equal(t, []string{"Logo updated successfully!"}, f.rec.Messages())
		})
	}
}

func TestSubmitProfileClearsPassword(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.page.Load(context.Background()))

	form := f.page.ProfileForm()
	form.Name = "Ada L"
	form.Password = "hunter22"
	f.page.SetProfileForm(form)

	require.NoError(t, f.page.SubmitProfile(context.Background()))
	assert.Equal(t, profile.Form{Name: "Ada L", Email: "ada@example.com"}, f.page.ProfileForm())
	assert.Equal(t, "hunter22", f.api.gotUpd.Password)
	assert.Equal(t, "Ada L", f.ident.user.Name)
}

func TestReloadIsLoad(t *testing.T) {
	f := newFixture(t)
	f.api.logo = "https://cdn.example.com/after-restore.png"

	require.NoError(t, f.page.Reload(context.Background()))
	assert.Equal(t, "https://cdn.example.com/after-restore.png", f.page.BrandingForm().LogoURL)
}
