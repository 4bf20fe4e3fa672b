package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/net/html"

	"github.com/rtfdocs/rtfd/internal/logging"
)

// Phase is a step of the overlay lifecycle on one page.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfigResolved
	PhaseDescriptorFetched
	PhaseSuppressed
	PhaseRendered
	PhasePopoverBound
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfigResolved:
		return "config_resolved"
	case PhaseDescriptorFetched:
		return "descriptor_fetched"
	case PhaseSuppressed:
		return "suppressed"
	case PhaseRendered:
		return "rendered"
	case PhasePopoverBound:
		return "popover_bound"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Options configure a Widget.
type Options struct {
	// Defaults fill config keys the page does not set.
	Defaults Config
	// Fetcher overrides the HTTP client built from the page config.
	Fetcher Fetcher
	// Legacy makes the built-in client use the /rtfd/<name>/desc endpoint.
	Legacy  bool
	Timeout time.Duration
	Mount   MountMode
	Popover PopoverOptions
	Render  RenderOptions
	// Logger defaults to the logger carried by the Run context.
	Logger logr.Logger
}

// Result is the outcome of one Run.
type Result struct {
	Phase  Phase
	State  State
	Config Config
	// Reason explains a suppression. It is informational; Run never fails
	// the hosting page.
	Reason error
}

// Widget mounts the overlay on documents. It is safe for concurrent use.
type Widget struct {
	opts Options
}

// NewWidget returns a widget with opts.
func NewWidget(opts Options) *Widget {
	if opts.Mount == "" {
		opts.Mount = MountAppend
	}
	return &Widget{opts: opts}
}

// Run resolves the config of doc, fetches the descriptor and mounts the
// overlay for the page at path. doc is modified only when the overlay is
// rendered.
func (w *Widget) Run(ctx context.Context, doc *html.Node, path string) Result {
	res := w.run(ctx, doc, path)
	runsTotal.WithLabelValues(res.Phase.String()).Inc()
	log := w.opts.Logger
	if log.GetSink() == nil {
		log = *logging.FromContext(ctx)
	}
	log = log.WithValues("path", path, "name", res.Config[KeyName], "phase", res.Phase.String())
	switch {
	case res.Phase == PhaseSuppressed:
		log.V(1).Info("overlay suppressed", "reason", res.Reason.Error())
	case res.Reason != nil:
		log.Info("overlay mounted without popover", "reason", res.Reason.Error())
	default:
		log.V(1).Info("overlay mounted")
	}
	return res
}

func (w *Widget) run(ctx context.Context, doc *html.Node, path string) Result {
	cfg := ResolveConfig(doc).Merge(w.opts.Defaults)
	res := Result{Phase: PhaseConfigResolved, Config: cfg}

	if HasOverlay(doc) {
		return suppress(res, ErrAlreadyMounted)
	}

	d, err := w.fetcher(cfg).FetchDescriptor(ctx, cfg[KeyName])
	if err != nil {
		return suppress(res, fmt.Errorf("fetching descriptor: %w", err))
	}
	res.Phase = PhaseDescriptorFetched

	if !d.NavEnabled() {
		return suppress(res, ErrSuppressed)
	}

	frag, st, err := RenderWith(d, path, w.opts.Render)
	if err != nil {
		return suppress(res, err)
	}
	res.State = st

	mounted, err := Mount(doc, frag, w.opts.Mount)
	if err != nil {
		return suppress(res, err)
	}
	if !mounted {
		return suppress(res, ErrAlreadyMounted)
	}
	res.Phase = PhaseRendered

	popover := w.opts.Popover
	popover.Static = cfg.Get(KeyStatic, popover.Static)
	if err := AttachPopover(doc, popover); err != nil {
		res.Reason = fmt.Errorf("binding popover: %w", err)
		return res
	}
	res.Phase = PhasePopoverBound
	return res
}

func (w *Widget) fetcher(cfg Config) Fetcher {
	if w.opts.Fetcher != nil {
		return w.opts.Fetcher
	}
	if w.opts.Legacy {
		c := NewClient(cfg[KeyAPI], w.opts.Timeout)
		c.Legacy = true
		return c
	}
	return NewClient(ComposeAPIURL(cfg), w.opts.Timeout)
}

func suppress(res Result, reason error) Result {
	res.Phase = PhaseSuppressed
	res.Reason = reason
	return res
}
