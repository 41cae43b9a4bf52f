package app

import (
	"context"
	"fmt"

	"github.com/vk/opmix/internal/ctxlog"
)

// Run executes the composition lifecycle: group initializers first, in
// registration order, then the composition report. When a report port
// is configured the report server is started and Run blocks until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if _, err := a.registry.InitGroups(ctx); err != nil {
		return fmt.Errorf("group initialization failed: %w", err)
	}
	a.logger.Info("All plugin groups initialized.", "groups", len(a.registry.GroupNames()))

	rep := a.buildReport()
	for _, tr := range rep.Types {
		a.logger.Info("Composed entity type.", "type", tr.Type, "slots", tr.Slots, "bundles", tr.Bundles)
	}
	for entityType, slots := range a.missingSlots() {
		a.logger.Warn("Entity type has unfilled operation slots.", "type", entityType, "missing", slots)
	}
	if len(rep.Types) == 0 {
		a.logger.Warn("No entity types composed; check the manifest and plugin guards.")
	}

	if a.appConfig.ReportPort > 0 {
		a.startReportServer(ctx)
		<-ctx.Done()
		if err := a.closeReportServer(); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
