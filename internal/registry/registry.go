package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"wcpack/internal/fileutil"
	"wcpack/internal/logging"
	"wcpack/internal/manifest"
	"wcpack/internal/services"
)

const (
	defaultManifestName = "package.json"
	lockRetryDelay      = 50 * time.Millisecond
)

// Outcome reports whether Register changed the manifest.
type Outcome int

const (
	// OutcomeSkipped means no component name was supplied and nothing was touched.
	OutcomeSkipped Outcome = iota
	// OutcomeApplied means the manifest was rewritten with the entry.
	OutcomeApplied
)

func (o Outcome) String() string {
	if o == OutcomeApplied {
		return "applied"
	}
	return "skipped"
}

// Option configures the registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithManifestName overrides the manifest file name (default package.json).
func WithManifestName(name string) Option {
	return func(r *Registry) {
		if name = strings.TrimSpace(name); name != "" {
			r.manifestName = name
		}
	}
}

// WithLockTimeout bounds how long Register waits for the manifest lock.
// Zero waits until the context is done.
func WithLockTimeout(timeout time.Duration) Option {
	return func(r *Registry) {
		if timeout >= 0 {
			r.lockTimeout = timeout
		}
	}
}

// WithoutFileLock disables the advisory file lock, leaving only in-process
// serialization. Used for read-only filesystems and collaborator fakes.
func WithoutFileLock() Option {
	return func(r *Registry) {
		r.fileLock = false
	}
}

// Registry manages the webcomponents section of the project manifest.
type Registry struct {
	files        fileutil.Access
	manifestName string
	logger       *slog.Logger
	lockTimeout  time.Duration
	fileLock     bool
	sem          chan struct{}
}

// New constructs a registry backed by the supplied file collaborator.
func New(files fileutil.Access, opts ...Option) (*Registry, error) {
	if files == nil {
		return nil, errors.New("registry requires a file access collaborator")
	}
	r := &Registry{
		files:        files,
		manifestName: defaultManifestName,
		logger:       logging.NewNop(),
		fileLock:     true,
		sem:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "registry")
	return r, nil
}

// ManifestPath resolves <base-directory>/<manifest name>.
func (r *Registry) ManifestPath() (string, error) {
	base, err := r.files.BaseDir()
	if err != nil {
		return "", services.Wrap(services.ErrManifestAccess, "registry", "resolve base directory", "", err)
	}
	return filepath.Join(base, r.manifestName), nil
}

// Register records version for component in the manifest. An empty component
// is a no-op reported as OutcomeSkipped; an empty version becomes "latest".
func (r *Registry) Register(ctx context.Context, component, version string) (Outcome, error) {
	if component == "" {
		r.logger.Debug("register skipped; no component name supplied")
		return OutcomeSkipped, nil
	}
	entry := manifest.NewEntry(component, version)
	ctx = services.WithComponentName(ctx, entry.Name)
	logger := logging.WithContext(ctx, r.logger)

	path, err := r.ManifestPath()
	if err != nil {
		return OutcomeSkipped, err
	}

	unlock, err := r.acquire(ctx, path)
	if err != nil {
		return OutcomeSkipped, err
	}
	defer unlock()

	doc, err := r.load(path)
	if err != nil {
		return OutcomeSkipped, err
	}
	previous, hadPrevious := lookupEntry(doc, entry.Name)
	if err := doc.SetComponent(entry.Name, entry.Version); err != nil {
		return OutcomeSkipped, services.Wrap(services.ErrMalformedManifest, "registry", "update", path, err)
	}
	data, err := doc.Marshal()
	if err != nil {
		return OutcomeSkipped, services.Wrap(services.ErrMalformedManifest, "registry", "serialize", path, err)
	}
	if err := r.files.WriteText(path, string(data)); err != nil {
		return OutcomeSkipped, services.Wrap(services.ErrManifestAccess, "registry", "write", path, err)
	}

	kind := ClassifyVersion(entry.Version)
	attrs := []logging.Attr{
		logging.String("version", entry.Version),
		logging.String("version_kind", string(kind)),
		logging.String("manifest", path),
	}
	if hadPrevious {
		attrs = append(attrs, logging.String("previous_version", previous))
	}
	logger.Info("component registered", logging.Args(attrs...)...)
	if kind == KindUnparsed {
		logger.Warn("version is neither a dist-tag nor a semver version or range",
			logging.String("version", entry.Version),
			logging.String(logging.FieldEventType, "registry_version_unparsed"),
		)
	}
	return OutcomeApplied, nil
}

// List reads the manifest and returns the registered components, or an empty
// mapping when the manifest has no webcomponents section.
func (r *Registry) List(ctx context.Context) (map[string]string, error) {
	entries, err := r.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.EntriesToMap(entries), nil
}

// Entries is List preserving manifest order.
func (r *Registry) Entries(ctx context.Context) ([]manifest.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.ManifestPath()
	if err != nil {
		return nil, err
	}
	doc, err := r.load(path)
	if err != nil {
		return nil, err
	}
	entries, err := doc.Components()
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedManifest, "registry", "read components", path, err)
	}
	if entries == nil {
		entries = []manifest.Entry{}
	}
	return entries, nil
}

// EchoVersion formats a single-entry mapping for component without consulting
// the manifest. It reports what a registration would record, not what is stored.
func (r *Registry) EchoVersion(component, version string) map[string]string {
	entry := manifest.NewEntry(component, version)
	return map[string]string{entry.Name: entry.Version}
}

// Lookup echoes component when one is supplied and otherwise lists the
// manifest. The echo path performs no file access.
func (r *Registry) Lookup(ctx context.Context, component, version string) (map[string]string, error) {
	if component != "" {
		return r.EchoVersion(component, version), nil
	}
	return r.List(ctx)
}

func (r *Registry) load(path string) (*manifest.Document, error) {
	text, err := r.files.ReadText(path)
	if err != nil {
		return nil, services.Wrap(services.ErrManifestAccess, "registry", "read", path, err)
	}
	doc, err := manifest.Parse([]byte(text))
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedManifest, "registry", "parse", path, err)
	}
	return doc, nil
}

// acquire serializes register spans within the process and, when enabled,
// across processes through an advisory lock file beside the manifest.
func (r *Registry) acquire(ctx context.Context, manifestPath string) (func(), error) {
	lockCtx := ctx
	if r.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, r.lockTimeout)
		defer cancel()
	}

	select {
	case r.sem <- struct{}{}:
	case <-lockCtx.Done():
		return nil, lockError(lockCtx.Err(), manifestPath)
	}
	release := func() { <-r.sem }

	if !r.fileLock {
		return release, nil
	}

	lockPath := filepath.Join(filepath.Dir(manifestPath), "."+filepath.Base(manifestPath)+".lock")
	fl := flock.New(lockPath)
	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !ok {
		release()
		if err == nil {
			err = lockCtx.Err()
		}
		return nil, lockError(err, manifestPath)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			r.logger.Warn("failed to release manifest lock", logging.String("lock", lockPath), logging.Error(err))
		}
		release()
	}, nil
}

func lockError(err error, manifestPath string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrLockTimeout, "registry", "lock", manifestPath, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("registry lock %s: %w", manifestPath, err)
	}
	return services.Wrap(services.ErrManifestAccess, "registry", "lock", manifestPath, err)
}

func lookupEntry(doc *manifest.Document, name string) (string, bool) {
	entries, err := doc.Components()
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.Name == name {
			return e.Version, true
		}
	}
	return "", false
}
