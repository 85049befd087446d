package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"shelfwatch/internal/rh"
	"shelfwatch/internal/types"
)

// Coordinator drives the notification cycle: per user it selects qualifying
// batches, raises deduplicated notification rows (scheduled path only),
// composes one grouped message, and dispatches it.
//
// Processing is sequential: one user's cycle runs to completion before the
// next begins, and the aggregate counters are only touched by the iterating
// flow, so no locking is needed.
type Coordinator struct {
	users      types.UserRepository
	products   types.ProductRepository
	raiser     *Raiser
	dispatcher *Dispatcher
	windowDays int
	clock      types.Clock
	logger     *slog.Logger
}

// NewCoordinator creates a Coordinator. windowDays is the default RH window,
// overridable per call; a nil clock defaults to the real UTC clock.
func NewCoordinator(
	users types.UserRepository,
	products types.ProductRepository,
	raiser *Raiser,
	dispatcher *Dispatcher,
	windowDays int,
	clock types.Clock,
	logger *slog.Logger,
) *Coordinator {
	if windowDays <= 0 {
		windowDays = rh.DefaultWindowDays
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		users:      users,
		products:   products,
		raiser:     raiser,
		dispatcher: dispatcher,
		windowDays: windowDays,
		clock:      clock,
		logger:     logger,
	}
}

// resolveWindow applies the per-call override, falling back to the configured
// default.
func (c *Coordinator) resolveWindow(windowDays int) int {
	if windowDays > 0 {
		return windowDays
	}
	return c.windowDays
}

// RunForUser executes the on-demand path for one user: select qualifying
// batches, compose, and dispatch. It does not persist notification rows;
// every invocation composes and sends afresh.
//
// A missing user aborts this unit of work with not_found_user. A user with
// zero qualifying items yields a successful empty report.
func (c *Coordinator) RunForUser(ctx context.Context, userID string, windowDays int) (*types.RunReport, error) {
	window := c.resolveWindow(windowDays)

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := c.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &types.RunReport{Success: true}
	items := rh.SelectNeedingAttention(products, c.clock.Now(), window)
	if len(items) == 0 {
		return report, nil
	}

	c.notifyUser(ctx, user, items, window, report)
	return report, nil
}

// RunAll executes the scheduled path over every user: per user it selects
// qualifying batches, raises deduplicated notification rows, and sends one
// grouped message. Per-user failures are converted to report entries and
// never stop the iteration; only a failure to read the user collection itself
// is fatal.
func (c *Coordinator) RunAll(ctx context.Context, windowDays int) (*types.RunReport, error) {
	window := c.resolveWindow(windowDays)

	users, err := c.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	report := &types.RunReport{Success: true}
	today := c.clock.Now()

	for _, user := range users {
		products, err := c.products.ListByUser(ctx, user.ID)
		if err != nil {
			report.AddError(fmt.Sprintf("Failed to load products for user %s: %v", user.Username, err))
			continue
		}

		items := rh.SelectNeedingAttention(products, today, window)
		if len(items) == 0 {
			continue // nothing to send; not a success, not a failure
		}

		if c.raiser != nil {
			if _, err := c.raiser.Raise(ctx, user.ID, items); err != nil {
				report.AddError(fmt.Sprintf("Failed to raise notifications for user %s: %v", user.Username, err))
				continue
			}
		}

		c.notifyUser(ctx, user, items, window, report)
	}

	c.logger.Info("notification run complete",
		"users", len(users),
		"sent", report.Sent,
		"failed", report.Failed,
	)
	return report, nil
}

// notifyUser composes and dispatches the grouped message for one user,
// recording the outcome on the report. The dispatcher is never invoked for a
// user without a contact address.
func (c *Coordinator) notifyUser(ctx context.Context, user *types.User, items []types.AttentionItem, window int, report *types.RunReport) {
	if !user.HasWhatsApp() {
		report.AddError(fmt.Sprintf("User %s has no WhatsApp number", user.Username))
		return
	}

	name := user.Name
	if name == "" {
		name = "User"
	}
	message := Compose(name, items, window)
	if message == "" {
		return
	}

	if _, err := c.dispatcher.Send(ctx, user.WhatsApp, message); err != nil {
		report.AddError(fmt.Sprintf("Failed for user %s: %v", user.Username, err))
		return
	}
	report.Sent++
}
