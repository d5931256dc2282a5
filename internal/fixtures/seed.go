package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// Stores are the repositories Seed writes to
type Stores struct {
	PickTasks   domain.PickTaskRepository
	PackTasks   domain.PackTaskRepository
	Orders      domain.OrderRepository
	Returns     domain.ReturnRequestRepository
	CycleCounts domain.CycleCountRepository
	Users       domain.UserRepository
	Dashboard   domain.DashboardRepository
}

// Result counts the rows written by Seed
type Result struct {
	Created int
	Skipped int
}

// Seed writes the fixtures built by b. Rows that already exist are left
// untouched so seeding can be repeated against a live database.
func Seed(ctx context.Context, stores Stores, b *Builder, logger *logging.Logger) (Result, error) {
	var res Result

	users, err := b.Users()
	if err != nil {
		return res, fmt.Errorf("failed to build users: %w", err)
	}
	for _, u := range users {
		if err := seedOne(ctx, &res, "user", u.Username,
			func(ctx context.Context) error { _, err := stores.Users.FindByUsername(ctx, u.Username); return err },
			func(ctx context.Context) error { return stores.Users.Save(ctx, u) },
		); err != nil {
			return res, err
		}
	}

	for _, o := range b.Orders() {
		if err := seedOne(ctx, &res, "order", o.ID,
			func(ctx context.Context) error { _, err := stores.Orders.FindByID(ctx, o.ID); return err },
			func(ctx context.Context) error { return stores.Orders.Save(ctx, o) },
		); err != nil {
			return res, err
		}
	}

	for _, t := range b.PickTasks() {
		if err := seedOne(ctx, &res, "pick task", t.ID,
			func(ctx context.Context) error { _, err := stores.PickTasks.FindByID(ctx, t.ID); return err },
			func(ctx context.Context) error { return stores.PickTasks.Save(ctx, t) },
		); err != nil {
			return res, err
		}
	}

	for _, t := range b.PackTasks() {
		if err := seedOne(ctx, &res, "pack task", t.ID,
			func(ctx context.Context) error { _, err := stores.PackTasks.FindByID(ctx, t.ID); return err },
			func(ctx context.Context) error { return stores.PackTasks.Save(ctx, t) },
		); err != nil {
			return res, err
		}
	}

	for _, r := range b.Returns() {
		if err := seedOne(ctx, &res, "return", r.ID,
			func(ctx context.Context) error { _, err := stores.Returns.FindByID(ctx, r.ID); return err },
			func(ctx context.Context) error { return stores.Returns.Save(ctx, r) },
		); err != nil {
			return res, err
		}
	}

	for _, c := range b.CycleCounts() {
		if err := seedOne(ctx, &res, "cycle count", c.ID,
			func(ctx context.Context) error { _, err := stores.CycleCounts.FindByID(ctx, c.ID); return err },
			func(ctx context.Context) error { return stores.CycleCounts.Save(ctx, c) },
		); err != nil {
			return res, err
		}
	}

	if stores.Dashboard != nil {
		if err := stores.Dashboard.Replace(ctx, b.Dashboard()); err != nil {
			return res, fmt.Errorf("failed to seed dashboard: %w", err)
		}
	}

	if logger != nil {
		logger.Info("Fixtures seeded", "created", res.Created, "skipped", res.Skipped)
	}
	return res, nil
}

func seedOne(ctx context.Context, res *Result, kind, id string, find, save func(context.Context) error) error {
	err := find(ctx)
	switch {
	case err == nil:
		res.Skipped++
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to look up %s %s: %w", kind, id, err)
	}
	if err := save(ctx); err != nil {
		return fmt.Errorf("failed to seed %s %s: %w", kind, id, err)
	}
	res.Created++
	return nil
}
