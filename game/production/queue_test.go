package production

import (
	"testing"
	"time"

	"github.com/mistfall/emberhold/catalog"
	"github.com/mistfall/emberhold/game/events"
	"github.com/mistfall/emberhold/game/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.Tables{
		Items: []*catalog.Item{
			{ID: "herb", Name: "Herb", Type: catalog.ItemConsumable},
		},
		Actions: []*catalog.Action{
			{ID: "dig", Name: "Dig", DurationS: 5, StaminaCost: 10,
				Rewards: []catalog.Reward{{Type: catalog.RewardResource, Key: ledger.ResStone, Amount: 3}}},
			{ID: "forage", Name: "Forage", DurationS: 3, StaminaCost: 5,
				Rewards: []catalog.Reward{{Type: catalog.RewardItem, Key: "herb", Amount: 1}}},
			{ID: "deep_dig", Name: "Deep Dig", DurationS: 4, StaminaCost: 2, Building: "mine"},
			{ID: "fish", Name: "Fish", DurationS: 4, StaminaCost: 2, Zone: "lake"},
		},
	})
}

func newTestQueue(t *testing.T) (*Queue, *ledger.Ledger, *events.Bus, *time.Time) {
	t.Helper()
	cat := testCatalog()
	bus := events.NewBus()
	led := ledger.New(ledger.NewState(1, "tester", catalog.ClassRanger, "m"), cat, bus, nil)
	q := NewQueue(led, cat, bus, nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }
	return q, led, bus, &now
}

func TestEnqueueDebitsStaminaUpFront(t *testing.T) {
	q, led, _, _ := newTestQueue(t)
	require.NoError(t, led.SpendStamina(40)) // down to 10

	require.NoError(t, q.Enqueue("dig"))
	assert.Equal(t, 0, led.Snapshot().Stamina)

	// Second job cannot be paid for; queue stays at one.
	assert.ErrorIs(t, q.Enqueue("forage"), ledger.ErrInsufficientStamina)
	assert.Equal(t, 1, q.Len())
}

func TestEnqueueRespectsSlotCap(t *testing.T) {
	q, _, _, _ := newTestQueue(t)
	require.NoError(t, q.Enqueue("forage"))
	require.NoError(t, q.Enqueue("forage"))
	require.NoError(t, q.Enqueue("forage"))
	assert.ErrorIs(t, q.Enqueue("forage"), ErrQueueFull)
}

func TestEnqueueGates(t *testing.T) {
	q, led, _, _ := newTestQueue(t)
	assert.ErrorIs(t, q.Enqueue("nope"), ErrUnknownAction)
	assert.ErrorIs(t, q.Enqueue("deep_dig"), ErrMissingBuilding)
	assert.ErrorIs(t, q.Enqueue("fish"), ErrZoneMismatch)

	led.SetZone("lake")
	require.NoError(t, q.Enqueue("fish"))
}

func TestTickCompletesOnlyElapsedHead(t *testing.T) {
	q, led, bus, now := newTestQueue(t)

	var completed []string
	bus.Subscribe(events.ActionCompleted, 10, "t", func(_ string, p interface{}) {
		completed = append(completed, p.(events.ActionCompletedPayload).ActionID)
	})

	require.NoError(t, q.Enqueue("dig"))    // 5s
	require.NoError(t, q.Enqueue("forage")) // 3s, waits behind head

	*now = now.Add(4 * time.Second)
	q.Tick(*now)
	assert.Empty(t, completed, "head not yet elapsed")
	assert.Equal(t, 2, q.Len())

	*now = now.Add(1 * time.Second)
	q.Tick(*now)
	assert.Equal(t, []string{"dig"}, completed)
	assert.Equal(t, 3, led.Snapshot().Resources[ledger.ResStone])

	// The second job only started counting when it became head.
	*now = now.Add(2 * time.Second)
	q.Tick(*now)
	assert.Len(t, completed, 1)

	*now = now.Add(1 * time.Second)
	q.Tick(*now)
	assert.Equal(t, []string{"dig", "forage"}, completed)
	assert.Equal(t, 1, led.Snapshot().ItemCount("herb"))
	assert.Equal(t, 0, q.Len())
}

func TestCancelRefundsAndPromotes(t *testing.T) {
	q, led, _, now := newTestQueue(t)
	require.NoError(t, q.Enqueue("dig"))    // -10
	require.NoError(t, q.Enqueue("forage")) // -5
	assert.Equal(t, 35, led.Snapshot().Stamina)

	assert.ErrorIs(t, q.Cancel(5), ErrBadIndex)

	require.NoError(t, q.Cancel(0))
	assert.Equal(t, 45, led.Snapshot().Stamina)

	// The promoted head restarts its timer at cancel time.
	*now = now.Add(3 * time.Second)
	q.Tick(*now)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 1, led.Snapshot().ItemCount("herb"))
}

func TestWorkerProduction(t *testing.T) {
	cat := catalog.Default()
	bus := events.NewBus()
	led := ledger.New(ledger.NewState(1, "tester", catalog.ClassPaladin, "f"), cat, bus, nil)
	led.AddGold(100000)
	led.AddResource(ledger.ResWood, 1000)
	led.AddResource(ledger.ResStone, 1000)
	startWood := led.Snapshot().Resources[ledger.ResWood]

	require.NoError(t, led.HireWorker(ledger.RoleWoodsman))
	require.NoError(t, led.HireWorker(ledger.RoleWoodsman))
	require.NoError(t, led.HireWorker(ledger.RoleResearcher))
	require.NoError(t, led.ConstructBuilding("lumberMill"))
	require.NoError(t, led.ConstructBuilding("lumberMill"))
	woodSpent := startWood - led.Snapshot().Resources[ledger.ResWood]

	ProduceTick(led)
	st := led.Snapshot()
	// 2 woodsmen × 1 × (1 + 2×0.5) = 4 wood.
	assert.Equal(t, startWood-woodSpent+4, st.Resources[ledger.ResWood])
	// A lone researcher floors to zero without a library.
	assert.Equal(t, 0, st.Resources[ledger.ResTech])

	require.NoError(t, led.HireWorker(ledger.RoleResearcher))
	ProduceTick(led)
	// 2 researchers × 0.5 = 1 tech.
	assert.Equal(t, 1, led.Snapshot().Resources[ledger.ResTech])
}
