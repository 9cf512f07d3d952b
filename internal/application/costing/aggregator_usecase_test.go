package costing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/application/costing"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

type costFixture struct {
	store      *memory.Store
	lotRepo    *memory.LotRepo
	resRepo    *memory.ReservationRepo
	consRepo   *memory.ConsumptionRepo
	taskRepo   *memory.TaskRepo
	orderRepo  *memory.OrderRepo
	aggregator *costing.CostAggregator
}

func newCostFixture() *costFixture {
	store := memory.NewStore()
	f := &costFixture{
		store:     store,
		lotRepo:   memory.NewLotRepository(store),
		resRepo:   memory.NewReservationRepository(store),
		consRepo:  memory.NewConsumptionRepository(store),
		taskRepo:  memory.NewTaskRepository(store),
		orderRepo: memory.NewOrderRepository(store),
	}
	f.aggregator = costing.NewCostAggregator(f.taskRepo, f.resRepo, f.consRepo)
	return f
}

func (f *costFixture) seedTask(outputQty string, materials ...entity.TaskMaterial) {
	f.store.PutTask(entity.ProductionTask{
		ID:             "tarea-1",
		Name:           "Pan integral",
		OutputQuantity: d(outputQty),
		Materials:      materials,
	})
}

func (f *costFixture) seedReservation(t *testing.T, id, itemID, lotID, qty, price string) {
	t.Helper()
	res := entity.Reservation{
		ID: id, ItemID: itemID, LotID: lotID, LotNumber: "L-" + lotID,
		TaskID: "tarea-1", Quantity: d(qty), UnitPrice: d(price),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, f.resRepo.Create(context.Background(), &res))
}

func (f *costFixture) seedConsumption(t *testing.T, id, itemID, lotID, qty, price string) {
	t.Helper()
	cons := entity.Consumption{
		ID: id, ItemID: itemID, LotID: lotID, LotNumber: "L-" + lotID,
		TaskID: "tarea-1", Quantity: d(qty), UnitPrice: d(price),
		IssuedAt: time.Now(),
	}
	require.NoError(t, f.consRepo.Create(context.Background(), &cons))
}

// Costo ponderado sobre reservas: harina 3@2.00 + 2@3.50 pondera a 2.60;
// el material no incluido suma solo al costo total de producción.
func TestComputeCost_PonderaYDistingueMateriales(t *testing.T) {
	f := newCostFixture()
	f.seedTask("4",
		entity.TaskMaterial{ItemID: "harina", RequiredQuantity: d("5"), IncludedInCost: true},
		entity.TaskMaterial{ItemID: "empaque", RequiredQuantity: d("2"), IncludedInCost: false},
	)
	f.seedReservation(t, "r1", "harina", "lote-1", "3", "2.00")
	f.seedReservation(t, "r2", "harina", "lote-2", "2", "3.50")
	f.seedReservation(t, "r3", "empaque", "lote-3", "2", "1.00")

	result, err := f.aggregator.ComputeCost(context.Background(), "tarea-1")
	require.NoError(t, err)

	// harina: 5 × 2.60 = 13; empaque: 2 × 1.00 = 2
	assert.True(t, result.MaterialCost.Equal(d("13")), "solo harina está incluida, obtuve %s", result.MaterialCost)
	assert.True(t, result.FullProductionCost.Equal(d("15")))
	assert.True(t, result.MaterialUnitCost.Equal(d("3.25")))
	assert.True(t, result.FullProductionUnitCost.Equal(d("3.75")))
}

// Con consumos presentes, las reservas del material dejan de contar.
func TestComputeCost_ConsumosTienenPrecedencia(t *testing.T) {
	f := newCostFixture()
	f.seedTask("1",
		entity.TaskMaterial{ItemID: "harina", RequiredQuantity: d("5"), IncludedInCost: true},
	)
	f.seedReservation(t, "r1", "harina", "lote-1", "5", "2.00")
	f.seedConsumption(t, "c1", "harina", "lote-1", "5", "3.00")

	result, err := f.aggregator.ComputeCost(context.Background(), "tarea-1")
	require.NoError(t, err)

	assert.True(t, result.MaterialCost.Equal(d("15")),
		"el consumo a 3.00 manda sobre la reserva a 2.00")
}

// Material sin registros pondera a 0 y no aporta costo.
func TestComputeCost_MaterialSinRegistrosValeCero(t *testing.T) {
	f := newCostFixture()
	f.seedTask("2",
		entity.TaskMaterial{ItemID: "harina", RequiredQuantity: d("5"), IncludedInCost: true},
	)

	result, err := f.aggregator.ComputeCost(context.Background(), "tarea-1")
	require.NoError(t, err)

	assert.True(t, result.MaterialCost.IsZero())
	assert.True(t, result.FullProductionCost.IsZero())
}

// Cantidad de salida cero: los costos unitarios valen 0, nunca dividen por cero.
func TestComputeCost_SalidaCeroNoDivide(t *testing.T) {
	f := newCostFixture()
	f.seedTask("0",
		entity.TaskMaterial{ItemID: "harina", RequiredQuantity: d("5"), IncludedInCost: true},
	)
	f.seedReservation(t, "r1", "harina", "lote-1", "5", "2.00")

	result, err := f.aggregator.ComputeCost(context.Background(), "tarea-1")
	require.NoError(t, err)

	assert.True(t, result.MaterialCost.Equal(d("10")))
	assert.True(t, result.MaterialUnitCost.IsZero())
	assert.True(t, result.FullProductionUnitCost.IsZero())
}

func TestComputeCost_TareaInexistente(t *testing.T) {
	f := newCostFixture()

	_, err := f.aggregator.ComputeCost(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// PersistCost escribe los campos derivados una vez y es idempotente sobre el
// mismo estado del libro.
func TestPersistCost_IdempotenteSobreMismoEstado(t *testing.T) {
	f := newCostFixture()
	f.seedTask("4",
		entity.TaskMaterial{ItemID: "harina", RequiredQuantity: d("5"), IncludedInCost: true},
	)
	f.seedReservation(t, "r1", "harina", "lote-1", "3", "2.00")
	f.seedReservation(t, "r2", "harina", "lote-2", "2", "3.50")

	_, changed, err := f.aggregator.PersistCost(context.Background(), "tarea-1")
	require.NoError(t, err)
	assert.True(t, changed, "primera pasada escribe")

	task, err := f.taskRepo.GetByID(context.Background(), "tarea-1")
	require.NoError(t, err)
	assert.True(t, task.MaterialCost.Equal(d("13")))
	require.NotNil(t, task.CostUpdatedAt)
	firstStamp := *task.CostUpdatedAt

	_, changed, err = f.aggregator.PersistCost(context.Background(), "tarea-1")
	require.NoError(t, err)
	assert.False(t, changed, "segunda pasada sin cambios en el libro no escribe")

	task, err = f.taskRepo.GetByID(context.Background(), "tarea-1")
	require.NoError(t, err)
	assert.True(t, task.CostUpdatedAt.Equal(firstStamp), "el sello de costo no se retoca sin cambios")
}
