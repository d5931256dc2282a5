package mongodb

import (
	"context"

	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	pkgmongo "github.com/wms-platform/warehouse-ops/pkg/mongodb"
	outboxMongo "github.com/wms-platform/warehouse-ops/pkg/outbox/mongodb"
)

// Stores bundles every MongoDB repository sharing one database, outbox
// and transactor
type Stores struct {
	PickTasks   *PickTaskRepository
	PackTasks   *PackTaskRepository
	Orders      *OrderRepository
	Returns     *ReturnRequestRepository
	CycleCounts *CycleCountRepository
	Users       *UserRepository
	Settings    *SettingsRepository
	Dashboard   *DashboardRepository
	Outbox      *outboxMongo.Store
	Transactor  *Transactor
}

// NewStores builds the repositories over client's database. instr may be nil.
func NewStores(client *pkgmongo.Client, eventFactory *cloudevents.EventFactory, instr *pkgmongo.Instrumentation) *Stores {
	db := client.Database()
	s := &store{
		db:           db,
		tx:           NewTransactor(client),
		outbox:       outboxMongo.NewStore(db),
		eventFactory: eventFactory,
		instr:        instr,
	}

	return &Stores{
		PickTasks:   newPickTaskRepository(s),
		PackTasks:   newPackTaskRepository(s),
		Orders:      newOrderRepository(s),
		Returns:     newReturnRequestRepository(s),
		CycleCounts: newCycleCountRepository(s),
		Users:       newUserRepository(s),
		Settings:    newSettingsRepository(s),
		Dashboard:   newDashboardRepository(s),
		Outbox:      s.outbox,
		Transactor:  s.tx,
	}
}

// EnsureIndexes creates the indexes of every collection
func (s *Stores) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		s.PickTasks.EnsureIndexes,
		s.PackTasks.EnsureIndexes,
		s.Orders.EnsureIndexes,
		s.Returns.EnsureIndexes,
		s.CycleCounts.EnsureIndexes,
		s.Outbox.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}
