// Package page is the admin settings page: the profile form, the branding
// form, and the load/reload that fills them.
package page

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"waterx/internal/logger"
	"waterx/internal/profile"
	"waterx/internal/settings"
)

// LogoStore is the settings store as seen by the page
type LogoStore interface {
	State() settings.State
	Subscribe(fn func(settings.State)) (cancel func())
	FetchLogoURL(ctx context.Context)
	UpdateLogoURL(ctx context.Context, url string) error
}

// Profiles is the profile service as seen by the page
type Profiles interface {
	Prefill(ctx context.Context) (*profile.Form, error)
	Submit(ctx context.Context, form *profile.Form) error
}

// Page holds both forms and keeps the branding form in step with the store
type Page struct {
	store    LogoStore
	profiles Profiles
	log      logger.Logger

	mu       sync.Mutex
	profile  profile.Form
	branding BrandingForm
	synced   *string // last logo URL seen from the store
	unsub    func()
}

// New creates the page and starts following the store
func New(store LogoStore, profiles Profiles, log logger.Logger) *Page {
	if log == nil {
		log = logger.NewNullLogger()
	}
	p := &Page{store: store, profiles: profiles, log: log}
	p.syncBranding(store.State())
	p.unsub = store.Subscribe(p.syncBranding)
	return p
}

// Close stops following the store
func (p *Page) Close() {
	if p.unsub != nil {
		p.unsub()
	}
}

// syncBranding resets the branding form when the stored logo changes to a
// non-empty value. Repeated snapshots with the same value leave edits alone.
func (p *Page) syncBranding(st settings.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sameValue(p.synced, st.LogoURL) {
		return
	}
	if st.LogoURL == nil {
		p.synced = nil
		return
	}
	v := *st.LogoURL
	p.synced = &v
	if v != "" {
		p.branding = BrandingForm{LogoURL: v}
		p.log.Debug("Branding form synced", "key", "logoUrl")
	}
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Load prefills the profile form from the employee list and fetches the
// logo. It is also the reload run after a restore.
func (p *Page) Load(ctx context.Context) error {
	var result *multierror.Error

	form, err := p.profiles.Prefill(ctx)
	switch {
	case err != nil:
		p.log.Warn("Could not load employee record", "error", err)
		result = multierror.Append(result, err)
	case form != nil:
		p.mu.Lock()
		p.profile = profile.Form{Name: form.Name, Email: form.Email}
		p.mu.Unlock()
	}

	p.store.FetchLogoURL(ctx)
	return result.ErrorOrNil()
}

// Reload implements backup.Reloader
func (p *Page) Reload(ctx context.Context) error {
	return p.Load(ctx)
}

// ProfileForm returns a copy of the profile form
func (p *Page) ProfileForm() profile.Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// SetProfileForm replaces the profile form contents
func (p *Page) SetProfileForm(f profile.Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = f
}

// BrandingForm returns a copy of the branding form
func (p *Page) BrandingForm() BrandingForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.branding
}

// SetBrandingForm replaces the branding form contents
func (p *Page) SetBrandingForm(f BrandingForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.branding = f
}

// SubmitProfile validates and sends the profile form. On success the
// password field is cleared.
func (p *Page) SubmitProfile(ctx context.Context) error {
	form := p.ProfileForm()
	if err := p.profiles.Submit(ctx, &form); err != nil {
		return err
	}
	p.mu.Lock()
	p.profile.Password = form.Password
	p.mu.Unlock()
	return nil
}

// SubmitBranding validates the branding form and stores the logo URL
func (p *Page) SubmitBranding(ctx context.Context) error {
	form := p.BrandingForm()
	if err := form.Validate(); err != nil {
		return err
	}
	return p.store.UpdateLogoURL(ctx, form.LogoURL)
}
