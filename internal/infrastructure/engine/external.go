package engine

import (
	"context"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/rs/zerolog"
)

// externalEngine satisfies the engine contract by handing every page off to
// a separate viewer process. Its own view is a static placeholder; zoom,
// scripting, and thumbnails stay capability-gated off in the descriptor, so
// the shared core turns them into silent no-ops.
type externalEngine struct {
	*core
	opener      port.Opener
	placeholder func() port.View
}

var _ port.Engine = (*externalEngine)(nil)

// NewExternalEngine builds the out-of-process delegate. placeholder supplies
// the widget shown in the tab area while pages render elsewhere.
func NewExternalEngine(desc entity.Descriptor, tabID entity.TabID, dispatch port.Dispatcher, log zerolog.Logger, opener port.Opener, placeholder func() port.View) port.Engine {
	e := &externalEngine{opener: opener, placeholder: placeholder}
	e.core = newCore(desc, tabID, dispatch, log, e)
	return e
}

func (e *externalEngine) createView(context.Context) (port.View, error) {
	return e.placeholder(), nil
}

func (e *externalEngine) releaseView(context.Context) {}

func (e *externalEngine) navigate(ctx context.Context, url string) error {
	if err := e.opener.OpenURL(ctx, url); err != nil {
		return err
	}
	// The external process has no commit signal to report; settle the page
	// as loaded so the host updates its chrome.
	e.deliver(func() { e.loadFinished(url) })
	return nil
}

func (e *externalEngine) reload(ctx context.Context) error {
	entry, ok := e.history.Current()
	if !ok {
		return nil
	}
	return e.opener.OpenURL(ctx, entry.URL)
}

func (e *externalEngine) historyMove(context.Context, bool) {}

func (e *externalEngine) applyZoom(float64) {}

// Pages render in the external process, so no permission or file chooser
// request ever reaches this side.
func (e *externalEngine) answerPermission(bool) bool { return false }

func (e *externalEngine) answerFilePick([]string) bool { return false }

func (e *externalEngine) dropPendingRequests() {}

func (e *externalEngine) trim(context.Context) {}
