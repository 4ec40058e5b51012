package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

// DraftSaver persists a party's staged board as a draft after a fixed quiet
// period without further edits. A new edit within the quiet period resets
// the timer, so only the latest board contents ever reach the store.
type DraftSaver struct {
	mtx sync.Mutex

	owner string
	quiet time.Duration
	store ports.DraftStore
	timer *time.Timer
}

// NewDraftSaver returns a saver debouncing writes for the given owner with
// the given quiet period.
func NewDraftSaver(
	owner string, quiet time.Duration, store ports.DraftStore,
) *DraftSaver {
	return &DraftSaver{owner: owner, quiet: quiet, store: store}
}

// Schedule arms the debounce timer with the given board contents, replacing
// any pending save.
func (d *DraftSaver) Schedule(items []domain.TradeItem) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		if err := d.store.SaveDraft(
			context.Background(), d.owner, items,
		); err != nil {
			log.WithError(err).Warnf("failed to autosave draft for %s", d.owner)
		}
	})
}

// Cancel drops any pending save. Used whenever the session leaves the live
// state or its boards hold history-derived items, which must never be
// persisted as a new draft.
func (d *DraftSaver) Cancel() {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
